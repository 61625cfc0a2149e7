package game

// State is the game screen state
type State int32

const (
	StateSplash State = iota
	StateHelp
	StatePlaying
	StatePaused
	StateEndOfLevel
	StateGameOver
)

var stateNames = [...]string{
	StateSplash:     "splash",
	StateHelp:       "help",
	StatePlaying:    "playing",
	StatePaused:     "paused",
	StateEndOfLevel: "end_of_level",
	StateGameOver:   "game_over",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// simulating reports whether sprites move in this state
func (s State) simulating() bool {
	return s != StatePaused
}
