package audio

import (
	"math"
	"testing"
	"time"
)

// TestSoundManagerGracefulDegradation verifies cues don't panic when not initialized
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Sound operations panicked without initialization: %v", r)
		}
	}()

	sm.PlayClear(3)
	sm.PlayDebris()
	sm.PlayReject()
	sm.PlayCountdown()
	sm.PlayVictory()
	sm.PlayDefeat()
	sm.Cleanup()
}

func TestSoundManagerMute(t *testing.T) {
	sm := NewSoundManager()
	if sm.Muted() {
		t.Error("Expected unmuted by default")
	}
	if prev := sm.SetMuted(true); prev {
		t.Error("Expected previous state unmuted")
	}
	if !sm.Muted() {
		t.Error("Expected muted")
	}
}

func TestToneGeneratorEnds(t *testing.T) {
	g := NewToneGenerator(sampleRate, 440, 10*time.Millisecond)
	want := sampleRate.N(10 * time.Millisecond)

	buf := make([][2]float64, 256)
	total := 0
	for {
		n, ok := g.Stream(buf)
		total += n
		if !ok {
			break
		}
		for _, s := range buf[:n] {
			if math.Abs(s[0]) > 0.25 {
				t.Fatalf("Expected amplitude within 0.25, got %f", s[0])
			}
		}
	}
	if total != want {
		t.Errorf("Expected %d samples, got %d", want, total)
	}
}

func TestMelodyLength(t *testing.T) {
	step := 5 * time.Millisecond
	m := Melody(sampleRate, step, noteC5, noteE5, noteG5)

	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := m.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	if want := 3 * sampleRate.N(step); total != want {
		t.Errorf("Expected %d samples, got %d", want, total)
	}
}

func TestCrackleGeneratorDeterministic(t *testing.T) {
	a := NewCrackleGenerator(sampleRate, 7)
	b := NewCrackleGenerator(sampleRate, 7)
	bufA := make([][2]float64, 64)
	bufB := make([][2]float64, 64)
	a.Stream(bufA)
	b.Stream(bufB)
	for i := range bufA {
		if bufA[i] != bufB[i] {
			t.Fatalf("Expected identical samples at %d", i)
		}
	}
}
