package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// speakerInit is replaced in tests, the real speaker needs an audio device
var speakerInit = func(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}

// speakerPlay starts streaming s to the device
var speakerPlay = func(s beep.Streamer) { speaker.Play(s) }

// SoundManager mixes short effects onto the speaker
// Silent until Init succeeds, all methods are safe on a silent manager
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	played      int
	log         zerolog.Logger
}

// NewSoundManager creates a new sound manager
func NewSoundManager(log zerolog.Logger) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: 1.0,
		log:    log.With().Str("component", "audio").Logger(),
	}
}

// Init sets up the speaker, a failure leaves the manager silent
func (sm *SoundManager) Init(enabled bool) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if !enabled {
		return ErrAudioDisabled
	}

	if err := speakerInit(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		sm.log.Warn().Err(err).Msg("speaker unavailable, running silent")
		return fmt.Errorf("init speaker: %w", err)
	}

	speakerPlay(sm.mixer)
	sm.initialized = true
	sm.log.Debug().Int("sample_rate", int(sampleRate)).Msg("audio initialized")
	return nil
}

// SetVolume scales every following effect, 0 mutes
func (sm *SoundManager) SetVolume(v float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if v < 0 {
		v = 0
	}
	sm.volume = v
}

// Play mixes one effect in, ignored when silent
func (sm *SoundManager) Play(s SoundType) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	streamer := GetSoundEffect(s, sampleRate, sm.volume)
	if streamer == nil {
		return
	}

	speaker.Lock()
	sm.mixer.Add(streamer)
	speaker.Unlock()
	sm.played++
}

// Close stops all sounds, the manager stays silent afterwards
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	// beep has no speaker shutdown that allows re-init, clearing the mixer is enough
	sm.initialized = false
}

// Active reports whether sounds reach the speaker
func (sm *SoundManager) Active() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Played returns the number of effects started
func (sm *SoundManager) Played() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.played
}
