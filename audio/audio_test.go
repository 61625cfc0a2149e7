package audio

import (
	"errors"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain streams s to completion and returns the sample count and peak amplitude
func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			if smp[0] > peak {
				peak = smp[0]
			}
			if -smp[0] > peak {
				peak = -smp[0]
			}
		}
		total += n
		if !ok {
			break
		}
	}
	return total, peak
}

func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		n, peak := drain(NewOscillator(440, 100*time.Millisecond, wave, rate))
		assert.Equal(t, rate.N(100*time.Millisecond), n, "wave %d", wave)
		assert.LessOrEqual(t, peak, 1.0)
		assert.Positive(t, peak)
	}
}

func TestEnvelopeBounded(t *testing.T) {
	rate := beep.SampleRate(8000)
	d := 200 * time.Millisecond
	env := NewEnvelope(NewOscillator(220, time.Second, WaveSquare, rate), d, 10*time.Millisecond, 50*time.Millisecond, rate)
	n, peak := drain(env)
	assert.Equal(t, rate.N(d), n, "envelope cuts a longer source")
	assert.LessOrEqual(t, peak, 1.0)
}

func TestEverySoundTerminates(t *testing.T) {
	rate := beep.SampleRate(8000)
	for s := SoundType(0); s < soundTypeCount; s++ {
		t.Run(s.String(), func(t *testing.T) {
			st := GetSoundEffect(s, rate, 1.0)
			require.NotNil(t, st)
			n, _ := drain(st)
			assert.Positive(t, n)
			assert.Less(t, n, rate.N(2*time.Second))
		})
	}
	assert.Nil(t, GetSoundEffect(soundTypeCount, rate, 1.0))
	assert.Equal(t, "unknown", SoundType(-1).String())
}

func TestMutedSoundIsSilent(t *testing.T) {
	_, peak := drain(GetSoundEffect(SoundFire, beep.SampleRate(8000), 0))
	assert.Zero(t, peak)
}

func stubSpeaker(t *testing.T, initErr error) *int {
	t.Helper()
	prevInit, prevPlay := speakerInit, speakerPlay
	plays := 0
	speakerInit = func(beep.SampleRate, int) error { return initErr }
	speakerPlay = func(beep.Streamer) { plays++ }
	t.Cleanup(func() { speakerInit, speakerPlay = prevInit, prevPlay })
	return &plays
}

func TestSoundManagerLifecycle(t *testing.T) {
	plays := stubSpeaker(t, nil)
	sm := NewSoundManager(zerolog.Nop())

	sm.Play(SoundFire)
	assert.Zero(t, sm.Played(), "silent before init")

	require.NoError(t, sm.Init(true))
	require.NoError(t, sm.Init(true))
	assert.Equal(t, 1, *plays, "mixer attached once")
	assert.True(t, sm.Active())

	sm.Play(SoundFire)
	sm.Play(SoundExplosion)
	assert.Equal(t, 2, sm.Played())

	sm.Close()
	assert.False(t, sm.Active())
	sm.Play(SoundHit)
	assert.Equal(t, 2, sm.Played())
}

func TestSoundManagerSilentFallback(t *testing.T) {
	stubSpeaker(t, errors.New("no device"))

	sm := NewSoundManager(zerolog.Nop())
	assert.ErrorIs(t, sm.Init(false), ErrAudioDisabled)

	err := sm.Init(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no device")
	assert.False(t, sm.Active())
	sm.Play(SoundFire)
	sm.Close()
}

func TestNopPlayer(t *testing.T) {
	var p Player = Nop{}
	p.Play(SoundGameOver)
	p.Close()
	var _ Player = (*SoundManager)(nil)
}
