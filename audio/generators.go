package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// ToneGenerator plays a sine tone with an exponential decay, ending after its duration
type ToneGenerator struct {
	sr     beep.SampleRate
	freq   float64
	decay  float64 // Envelope decay rate per second
	pos    int
	length int
}

// NewToneGenerator creates a finite decaying tone
func NewToneGenerator(sr beep.SampleRate, freq float64, d time.Duration) *ToneGenerator {
	return &ToneGenerator{
		sr:     sr,
		freq:   freq,
		decay:  4 / d.Seconds(),
		length: sr.N(d),
	}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.length {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)

		// Short attack avoids clicks at onset
		attack := math.Min(t/0.005, 1.0)
		sample := 0.25 * attack * math.Exp(-t*g.decay) * math.Sin(2*math.Pi*g.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

// BuzzGenerator generates a low-pitch buzz sound
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBuzzGenerator creates a buzz sound generator
func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{
		sr:   sr,
		freq: freq,
	}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.0
		sample += 0.3 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.15 * math.Sin(2*math.Pi*g.freq*2*t)
		sample += 0.075 * math.Sin(2*math.Pi*g.freq*3*t)

		envelope := math.Min(float64(g.pos)/float64(g.sr)/0.02, 1.0)
		sample *= envelope * 0.2

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error {
	return nil
}

// CrackleGenerator generates the noisy thud of debris arriving
type CrackleGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
}

// NewCrackleGenerator creates a crackle generator; equal seeds give equal output
func NewCrackleGenerator(sr beep.SampleRate, seed int64) *CrackleGenerator {
	return &CrackleGenerator{sr: sr, seed: seed}
}

func (g *CrackleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		envelope := math.Exp(-t * 8)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		rumble := 0.3 * math.Sin(2*math.Pi*80*t)

		sample := envelope * (0.25*noise + rumble)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *CrackleGenerator) Err() error {
	return nil
}

// Melody chains decaying tones of equal length
func Melody(sr beep.SampleRate, step time.Duration, freqs ...float64) beep.Streamer {
	tones := make([]beep.Streamer, len(freqs))
	for i, f := range freqs {
		tones[i] = NewToneGenerator(sr, f, step)
	}
	return beep.Seq(tones...)
}
