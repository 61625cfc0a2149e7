package event

// Kind represents the type of game event
type Kind int

const (
	// KindAddFirst inserts a sprite at the front of the sprite list (drawn first)
	// Trigger: Game setup, banners | Payload: sprite
	KindAddFirst Kind = iota

	// KindAddLast appends a sprite to the sprite list (drawn last)
	// Trigger: Player fire, spawner | Payload: sprite
	KindAddLast

	// KindEnd signals the player was destroyed
	// Trigger: Remove of the player sprite | Payload: nil
	KindEnd

	// KindHelp toggles the help banner from the splash screen
	// Trigger: Key binding | Payload: nil
	KindHelp

	// KindLife grants the player a restored shield
	// Trigger: Score milestones | Payload: int (shield points)
	KindLife

	// KindMenu returns to the splash screen from game over
	// Trigger: Key binding | Payload: nil
	KindMenu

	// KindNextLevel advances past a completed level
	// Trigger: Key binding | Payload: nil
	KindNextLevel

	// KindQuit requests application shutdown
	// Trigger: Escape, Ctrl-C, SIGINT/SIGTERM | Payload: nil
	KindQuit

	// KindRemove removes a sprite from the sprite list
	// Trigger: Collisions, off-screen, animation end | Payload: sprite
	KindRemove

	// KindScore adds points to the score
	// Trigger: Missile hit | Payload: int
	KindScore

	// KindStart starts a game from splash, or resets after game over
	// Trigger: Key binding | Payload: nil
	KindStart

	// KindPause toggles pause while playing
	// Trigger: Key binding | Payload: nil
	KindPause

	kindCount
)

// Event is an immutable record delivered once to the event consumer
// Source identifies the originator, Attachment is interpreted per Kind
type Event struct {
	Source     any
	Kind       Kind
	Attachment any
}

// New creates an event
func New(source any, kind Kind, attachment any) Event {
	return Event{
		Source:     source,
		Kind:       kind,
		Attachment: attachment,
	}
}
