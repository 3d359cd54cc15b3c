package tonal

// UnknownName is the display name of a frame that matched no chord
const UnknownName = "unknown"

// Label is the per-frame classification result: either a known chord or
// Unknown. The zero value is Unknown.
type Label struct {
	chord Chord
	known bool
}

// Unknown is the label of a frame that matched no template well enough
var Unknown = Label{}

// Known wraps a chord in a label
func Known(c Chord) Label {
	return Label{chord: c, known: true}
}

// Chord returns the chord and whether the label is known
func (l Label) Chord() (Chord, bool) {
	return l.chord, l.known
}

// IsUnknown reports whether the label carries no chord
func (l Label) IsUnknown() bool {
	return !l.known
}

func (l Label) String() string {
	if !l.known {
		return UnknownName
	}
	return l.chord.String()
}

// ParseLabel accepts a chord identifier or "unknown"
func ParseLabel(name string) (Label, error) {
	if name == UnknownName {
		return Unknown, nil
	}
	c, err := ParseChord(name)
	if err != nil {
		return Unknown, err
	}
	return Known(c), nil
}

func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
