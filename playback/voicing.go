// Package playback synthesizes detected chord progressions: live through the
// default audio device, or rendered to WAV and MIDI files.
package playback

import (
	"math"

	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
)

// middleC is the MIDI note number of C4
const middleC = 60

// Voicing returns the MIDI notes of a close-position triad with its root in
// the fourth octave: F gives F4 A4 C5, Am gives A4 C5 E5.
func Voicing(c tonal.Chord) []uint8 {
	root := middleC + c.Root()
	intervals := c.Intervals()

	notes := make([]uint8, len(intervals))
	for i, interval := range intervals {
		notes[i] = uint8(root + interval)
	}
	return notes
}

// NoteFrequency converts a MIDI note number to Hz in A4=440 tuning
func NoteFrequency(note float64) float64 {
	return 440.0 * math.Pow(2, (note-69)/12)
}
