package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/titan/vmath"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves, freqEnd > 0 sweeps linearly from freq
type oscillator struct {
	freq     float64
	freqEnd  float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *vmath.FastRand
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, 0, duration, wave, rate)
}

// NewSweep creates an oscillator gliding from freq to freqEnd over duration
func NewSweep(freq, freqEnd float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		freqEnd:  freqEnd,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      vmath.NewFastRand(uint64(time.Now().UnixNano())),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq
		if o.freqEnd > 0 && o.duration > 0 {
			freq += (o.freqEnd - o.freq) * float64(o.position) / float64(o.duration)
		}
		o.phase += freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/release envelope
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = float64(remaining) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// math.Log2(0) is -Inf, zero volume becomes silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Sound effect generators

// CreateFireSound is a short descending square chirp
func CreateFireSound(rate beep.SampleRate, volume float64) beep.Streamer {
	d := 90 * time.Millisecond
	osc := NewSweep(1400, 500, d, WaveSquare, rate)
	return newVolume(NewEnvelope(osc, d, 5*time.Millisecond, 40*time.Millisecond, rate), 0.25*volume)
}

// CreateHitSound is a noise crack over a low thump
func CreateHitSound(rate beep.SampleRate, volume float64) beep.Streamer {
	d := 120 * time.Millisecond
	noise := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 2*time.Millisecond, 100*time.Millisecond, rate)
	thump := NewEnvelope(NewSweep(180, 60, d, WaveSine, rate), d, 2*time.Millisecond, 80*time.Millisecond, rate)
	return newVolume(beep.Mix(newVolume(noise, 0.5), newVolume(thump, 0.6)), 0.5*volume)
}

// CreateExplosionSound is a long noise burst with a falling rumble
func CreateExplosionSound(rate beep.SampleRate, volume float64) beep.Streamer {
	d := 600 * time.Millisecond
	noise := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 5*time.Millisecond, 500*time.Millisecond, rate)
	rumble := NewEnvelope(NewSweep(120, 30, d, WaveSaw, rate), d, 5*time.Millisecond, 450*time.Millisecond, rate)
	return newVolume(beep.Mix(newVolume(noise, 0.6), newVolume(rumble, 0.4)), 0.6*volume)
}

// CreateShieldHitSound is a low buzz
func CreateShieldHitSound(rate beep.SampleRate, volume float64) beep.Streamer {
	d := 150 * time.Millisecond
	osc := NewOscillator(110, d, WaveSaw, rate)
	return newVolume(NewEnvelope(osc, d, 10*time.Millisecond, 60*time.Millisecond, rate), 0.3*volume)
}

// CreateLevelUpSound is a rising three-note arpeggio
func CreateLevelUpSound(rate beep.SampleRate, volume float64) beep.Streamer {
	note := func(freq float64) beep.Streamer {
		d := 110 * time.Millisecond
		return NewEnvelope(NewOscillator(freq, d, WaveSquare, rate), d, 5*time.Millisecond, 50*time.Millisecond, rate)
	}
	// C6, E6, G6
	return newVolume(beep.Seq(note(1046.5), note(1318.51), note(1567.98)), 0.2*volume)
}

// CreateGameOverSound is a slow descending sine
func CreateGameOverSound(rate beep.SampleRate, volume float64) beep.Streamer {
	d := 900 * time.Millisecond
	osc := NewSweep(440, 110, d, WaveSine, rate)
	return newVolume(NewEnvelope(osc, d, 20*time.Millisecond, 400*time.Millisecond, rate), 0.4*volume)
}

// GetSoundEffect returns the appropriate sound effect streamer for the given type
func GetSoundEffect(soundType SoundType, rate beep.SampleRate, volume float64) beep.Streamer {
	switch soundType {
	case SoundFire:
		return CreateFireSound(rate, volume)
	case SoundHit:
		return CreateHitSound(rate, volume)
	case SoundExplosion:
		return CreateExplosionSound(rate, volume)
	case SoundShieldHit:
		return CreateShieldHitSound(rate, volume)
	case SoundLevelUp:
		return CreateLevelUpSound(rate, volume)
	case SoundGameOver:
		return CreateGameOverSound(rate, volume)
	default:
		return nil
	}
}
