package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
)

// Format selects an output encoding
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts text, json or msgpack in any case
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatText, FormatJSON, FormatMsgpack:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", name)
	}
}

// Frequency is one row of the chord frequency table
type Frequency struct {
	Chord      tonal.Chord `json:"chord" msgpack:"chord"`
	Count      int         `json:"count" msgpack:"count"`
	Percentage float64     `json:"percentage" msgpack:"percentage"`
}

// Document is the machine-readable form of a report
type Document struct {
	Source        string               `json:"source" msgpack:"source"`
	TotalDuration float64              `json:"total_duration" msgpack:"total_duration"`
	Progression   []tonal.ChordSegment `json:"progression" msgpack:"progression"`
	Frequency     []Frequency          `json:"frequency" msgpack:"frequency"`
}

// NewDocument flattens a report, ordering frequencies most common first
func NewDocument(r Report) Document {
	doc := Document{
		Source:        r.Source,
		TotalDuration: r.TotalDuration,
		Progression:   r.Progression,
		Frequency:     make([]Frequency, 0, len(r.Statistics)),
	}
	if doc.Progression == nil {
		doc.Progression = []tonal.ChordSegment{}
	}

	pct := r.Statistics.Percentages()
	for _, entry := range r.Statistics.MostCommon() {
		doc.Frequency = append(doc.Frequency, Frequency{
			Chord:      entry.Chord,
			Count:      entry.Count,
			Percentage: pct[entry.Chord],
		})
	}

	return doc
}

// Encode writes the report in the requested format
func Encode(w io.Writer, r Report, format Format) error {
	switch format {
	case FormatText, "":
		return Write(w, r)

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewDocument(r)); err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
		return nil

	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(NewDocument(r)); err != nil {
			return fmt.Errorf("failed to encode msgpack report: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
