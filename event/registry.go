package event

import (
	"fmt"
	"strings"
)

var kindNames = [kindCount]string{
	KindAddFirst:  "AddFirst",
	KindAddLast:   "AddLast",
	KindEnd:       "End",
	KindHelp:      "Help",
	KindLife:      "Life",
	KindMenu:      "Menu",
	KindNextLevel: "NextLevel",
	KindQuit:      "Quit",
	KindRemove:    "Remove",
	KindScore:     "Score",
	KindStart:     "Start",
	KindPause:     "Pause",
}

var nameToKind = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k, name := range kindNames {
		m[strings.ToLower(name)] = Kind(k)
	}
	return m
}()

// String returns the stable name of the kind
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// ParseKind maps a kind name to its Kind, case-insensitive
// Used by key bindings in the config file
func ParseKind(name string) (Kind, error) {
	k, ok := nameToKind[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown event kind %q", name)
	}
	return k, nil
}

// Kinds returns all declared kinds in declaration order
func Kinds() []Kind {
	ks := make([]Kind, kindCount)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}
