package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// Note frequencies of the cue melodies
const (
	noteC5 = 523.25
	noteE5 = 659.25
	noteG5 = 783.99
	noteC6 = 1046.50
	noteA3 = 220.00
	noteF3 = 174.61
	noteD3 = 146.83
)

// SoundManager plays client sound cues
// Every method is a no-op until Initialize succeeds or while muted
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
	crackles    int64
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	sm.initialized = false
}

// SetMuted silences or restores cues, returns the previous state
func (sm *SoundManager) SetMuted(on bool) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	prev := sm.muted
	sm.muted = on
	return prev
}

// Muted reports whether cues are silenced
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// play adds a finite streamer to the mixer
func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// PlayClear chimes for own eliminations, rising with their number
func (sm *SoundManager) PlayClear(eliminations int) {
	freqs := []float64{noteC5, noteE5, noteG5, noteC6}
	n := min(max(eliminations, 1), len(freqs))
	sm.play(Melody(sampleRate, 70*time.Millisecond, freqs[:n]...))
}

// PlayDebris thuds when opponents' debris lands on the board
func (sm *SoundManager) PlayDebris() {
	sm.mu.Lock()
	sm.crackles++
	seed := sm.crackles
	sm.mu.Unlock()
	sm.play(beep.Take(sampleRate.N(time.Millisecond*250), NewCrackleGenerator(sampleRate, seed)))
}

// PlayReject buzzes for a rejected request
func (sm *SoundManager) PlayReject() {
	sm.play(beep.Take(sampleRate.N(time.Millisecond*150), NewBuzzGenerator(sampleRate, 120)))
}

// PlayCountdown blips once per waiting room second
func (sm *SoundManager) PlayCountdown() {
	sm.play(NewToneGenerator(sampleRate, noteA3*2, 60*time.Millisecond))
}

// PlayVictory plays a rising arpeggio
func (sm *SoundManager) PlayVictory() {
	sm.play(Melody(sampleRate, 120*time.Millisecond, noteC5, noteE5, noteG5, noteC6))
}

// PlayDefeat plays a falling phrase
func (sm *SoundManager) PlayDefeat() {
	sm.play(Melody(sampleRate, 200*time.Millisecond, noteA3, noteF3, noteD3))
}
