// Package report renders chord analyses as human-readable text, reads that
// text back for playback, and encodes analyses as JSON or MessagePack.
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/RyanBlaney/sonido-chords/progression"
)

// DefaultOutputFile is where the CLI saves reports unless told otherwise
const DefaultOutputFile = "chord-output.txt"

const (
	progressionHeader = "📊 CHORD PROGRESSION:"
	frequencyHeader   = "🎵 CHORD FREQUENCY:"
	noProgression     = "No clear chord progression detected."
	noChords          = "No chords detected."
)

var (
	banner          = strings.Repeat("=", 60)
	progressionRule = strings.Repeat("-", 50)
	frequencyRule   = strings.Repeat("-", 30)
)

// Report is one analysis together with the file it came from
type Report struct {
	Source        string                `json:"source" msgpack:"source"`
	TotalDuration float64               `json:"total_duration" msgpack:"total_duration"`
	Progression   []tonal.ChordSegment  `json:"progression" msgpack:"progression"`
	Statistics    tonal.ChordStatistics `json:"-" msgpack:"-"`
}

// FromResult wraps an analyzer result
func FromResult(source string, result *progression.Result) Report {
	return Report{
		Source:        source,
		TotalDuration: result.TotalDuration,
		Progression:   result.Progression,
		Statistics:    result.Statistics,
	}
}

// FormatTime renders seconds as MM:SS.mmm. Milliseconds are truncated, not
// rounded.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	minutes := int(seconds / 60)
	remaining := math.Mod(seconds, 60)
	secs := int(remaining)
	millis := int((remaining - float64(secs)) * 1000)
	return fmt.Sprintf("%02d:%02d.%03d", minutes, secs, millis)
}

// Timeline draws one fixed-width cell per segment with the chord names
// centred underneath
func Timeline(segments []tonal.ChordSegment) string {
	if len(segments) == 0 {
		return "No chord progression detected."
	}

	var bar, labels strings.Builder
	bar.WriteString("|")
	for _, seg := range segments {
		bar.WriteString("-----|")
		labels.WriteString(center(seg.Chord.String(), 6))
	}

	return bar.String() + "\n" + labels.String()
}

// center pads s to width, putting the odd space on the right
func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// Write renders the full text report
func Write(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, banner)
	fmt.Fprintf(bw, "CHORD ANALYSIS RESULTS FOR: %s\n", filepath.Base(r.Source))
	fmt.Fprintln(bw, banner)
	fmt.Fprintln(bw)

	fmt.Fprintf(bw, "Total Duration: %s\n\n", FormatTime(r.TotalDuration))

	fmt.Fprintln(bw, progressionHeader)
	fmt.Fprintln(bw, progressionRule)

	if len(r.Progression) > 0 {
		for i, seg := range r.Progression {
			fmt.Fprintf(bw, "%2d. %-4s | %s - %s | Duration: %s\n",
				i+1, seg.Chord, FormatTime(seg.StartTime), FormatTime(seg.EndTime), FormatTime(seg.Duration))
		}
		fmt.Fprintf(bw, "\n%s\n\n", Timeline(r.Progression))
	} else {
		fmt.Fprintf(bw, "%s\n\n", noProgression)
	}

	fmt.Fprintln(bw, frequencyHeader)
	fmt.Fprintln(bw, frequencyRule)

	if total := r.Statistics.Total(); total > 0 {
		for _, entry := range r.Statistics.MostCommon() {
			pct := float64(entry.Count) / float64(total) * 100
			fmt.Fprintf(bw, "%-4s: %5.1f%% (%d frames)\n", entry.Chord, pct, entry.Count)
		}
	} else {
		fmt.Fprintln(bw, noChords)
	}

	fmt.Fprintf(bw, "\n%s\n", banner)

	return bw.Flush()
}

// SaveFile writes the text report to path, replacing any existing file
func SaveFile(path string, r Report) error {
	logger := logging.WithFields(logging.Fields{
		"component": "report",
		"path":      path,
	})

	if _, err := os.Stat(path); err == nil {
		logger.Info("Overwriting existing file")
	} else {
		logger.Info("Creating new file")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := Write(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}

	logger.Info("Results saved")
	return nil
}
