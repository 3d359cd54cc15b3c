package tonal

import (
	"fmt"

	"github.com/RyanBlaney/sonido-chords/algorithms/chroma"
)

// Chord identifies one of the 24 major and minor triads. The value is the
// chord's position in the template table.
type Chord int

const (
	CMajor Chord = iota
	CSharpMajor
	DMajor
	DSharpMajor
	EMajor
	FMajor
	FSharpMajor
	GMajor
	GSharpMajor
	AMajor
	ASharpMajor
	BMajor
	CMinor
	CSharpMinor
	DMinor
	DSharpMinor
	EMinor
	FMinor
	FSharpMinor
	GMinor
	GSharpMinor
	AMinor
	ASharpMinor
	BMinor

	// NumChords is the number of chord templates
	NumChords = 24
)

// triad intervals in semitones above the root
var (
	majorTriad = [3]int{0, 4, 7}
	minorTriad = [3]int{0, 3, 7}
)

// ChordTemplate pairs a chord identifier with its binary pitch-class mask
type ChordTemplate struct {
	Chord Chord                           `json:"chord"`
	Name  string                          `json:"name"`
	Mask  [chroma.NumPitchClasses]float64 `json:"mask"`
}

// templates is built once and never mutated. Its order is the iteration order
// of the classifier, so earlier entries win score ties.
var templates = buildTemplates()

var chordsByName = func() map[string]Chord {
	m := make(map[string]Chord, NumChords)
	for _, t := range templates {
		m[t.Name] = t.Chord
	}
	return m
}()

func buildTemplates() [NumChords]ChordTemplate {
	var out [NumChords]ChordTemplate

	for root := range chroma.NumPitchClasses {
		out[root] = newTemplate(Chord(root), chroma.PitchClassNames[root], root, majorTriad)
		minor := Chord(root + chroma.NumPitchClasses)
		out[minor] = newTemplate(minor, chroma.PitchClassNames[root]+"m", root, minorTriad)
	}

	return out
}

func newTemplate(chord Chord, name string, root int, intervals [3]int) ChordTemplate {
	t := ChordTemplate{Chord: chord, Name: name}
	for _, interval := range intervals {
		t.Mask[(root+interval)%chroma.NumPitchClasses] = 1
	}
	return t
}

// Templates returns a copy of the chord template table in declaration order:
// C C# D D# E F F# G G# A A# B, then the minor chords in the same root order.
func Templates() []ChordTemplate {
	out := make([]ChordTemplate, NumChords)
	copy(out, templates[:])
	return out
}

// Chords returns every chord identifier in template order
func Chords() []Chord {
	out := make([]Chord, NumChords)
	for i := range out {
		out[i] = Chord(i)
	}
	return out
}

// ParseChord resolves an identifier such as "C", "F#" or "A#m"
func ParseChord(name string) (Chord, error) {
	if c, ok := chordsByName[name]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown chord identifier %q", name)
}

// Valid reports whether c is one of the 24 chords
func (c Chord) Valid() bool {
	return c >= 0 && c < NumChords
}

func (c Chord) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Chord(%d)", int(c))
	}
	return templates[c].Name
}

// Root returns the pitch class of the chord's root (0=C)
func (c Chord) Root() int {
	return int(c) % chroma.NumPitchClasses
}

// IsMinor reports whether the chord is a minor triad
func (c Chord) IsMinor() bool {
	return c >= CMinor
}

// Intervals returns the semitone offsets of third and fifth above the root
func (c Chord) Intervals() [3]int {
	if c.IsMinor() {
		return minorTriad
	}
	return majorTriad
}

// Template returns the chord's template entry
func (c Chord) Template() ChordTemplate {
	return templates[c]
}

func (c Chord) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid chord %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Chord) UnmarshalText(text []byte) error {
	parsed, err := ParseChord(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
