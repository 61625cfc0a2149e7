package event

// IntAttachment returns the attachment as an int for Score and Life events
func IntAttachment(ev Event) (int, bool) {
	v, ok := ev.Attachment.(int)
	return v, ok
}
