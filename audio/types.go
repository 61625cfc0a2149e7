package audio

import "errors"

// SoundType represents different sound effects
type SoundType int

const (
	SoundFire      SoundType = iota // Missile launch
	SoundHit                        // Missile hits an asteroid
	SoundExplosion                  // Ship or enemy destroyed
	SoundShieldHit                  // Player shield absorbs a collision
	SoundLevelUp                    // Level complete
	SoundGameOver                   // Player lost
	soundTypeCount
)

var soundNames = [soundTypeCount]string{
	SoundFire:      "fire",
	SoundHit:       "hit",
	SoundExplosion: "explosion",
	SoundShieldHit: "shield_hit",
	SoundLevelUp:   "level_up",
	SoundGameOver:  "game_over",
}

func (s SoundType) String() string {
	if s < 0 || s >= soundTypeCount {
		return "unknown"
	}
	return soundNames[s]
}

// Player is the sound sink used by the game
type Player interface {
	Play(s SoundType)
	Close()
}

// Nop discards all sounds
type Nop struct{}

func (Nop) Play(SoundType) {}
func (Nop) Close()         {}

// ErrAudioDisabled is returned by Init when audio was turned off by configuration
var ErrAudioDisabled = errors.New("audio disabled")
