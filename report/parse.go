package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
)

// ErrNoProgression is returned when a text report has no progression section
var ErrNoProgression = errors.New("no chord progression section found")

var segmentLine = regexp.MustCompile(`\s*\d+\.\s+([A-G]#?m?)\s+\|\s+(\d{2}:\d{2}\.\d{3})\s+-\s+(\d{2}:\d{2}\.\d{3})\s+\|\s+Duration:\s+(\d{2}:\d{2}\.\d{3})`)

// Parse reads the progression section of a text report. A report whose
// progression is empty parses to an empty slice.
func Parse(r io.Reader) ([]tonal.ChordSegment, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	section, ok := progressionSection(string(content))
	if !ok {
		return nil, ErrNoProgression
	}

	segments := make([]tonal.ChordSegment, 0)
	for _, m := range segmentLine.FindAllStringSubmatch(section, -1) {
		chord, err := tonal.ParseChord(m[1])
		if err != nil {
			return nil, err
		}

		start, err := ParseTime(m[2])
		if err != nil {
			return nil, err
		}
		end, err := ParseTime(m[3])
		if err != nil {
			return nil, err
		}
		duration, err := ParseTime(m[4])
		if err != nil {
			return nil, err
		}

		segments = append(segments, tonal.ChordSegment{
			Chord:     chord,
			StartTime: start,
			EndTime:   end,
			Duration:  duration,
		})
	}

	return segments, nil
}

// ParseFile parses the text report at path
func ParseFile(path string) ([]tonal.ChordSegment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// progressionSection returns the text between the progression header rule
// and the timeline or frequency section
func progressionSection(content string) (string, bool) {
	idx := strings.Index(content, progressionHeader)
	if idx < 0 {
		return "", false
	}

	rest := strings.TrimLeft(content[idx+len(progressionHeader):], " \t\r\n")
	rest = strings.TrimLeft(rest, "-")

	end := len(rest)
	for _, marker := range []string{"\n|", "\n" + frequencyHeader} {
		if i := strings.Index(rest, marker); i >= 0 && i < end {
			end = i
		}
	}

	return rest[:end], true
}

// ParseTime converts MM:SS.mmm to seconds
func ParseTime(s string) (float64, error) {
	minutes, rest, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	secs, millis, ok := strings.Cut(rest, ".")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", s)
	}

	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", s, err)
	}
	sec, err := strconv.Atoi(secs)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q: %w", s, err)
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, fmt.Errorf("invalid milliseconds in %q: %w", s, err)
	}

	return float64(m*60+sec) + float64(ms)/1000.0, nil
}
