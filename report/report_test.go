package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/progression"
)

func sampleReport() Report {
	return Report{
		Source:        "/music/song.mp3",
		TotalDuration: 2.5,
		Progression: []tonal.ChordSegment{
			tonal.NewChordSegment(tonal.CMajor, 0, 1.5),
			tonal.NewChordSegment(tonal.FSharpMinor, 1.5, 2.5),
		},
		Statistics: tonal.ChordStatistics{tonal.CMajor: 3, tonal.FSharpMinor: 1},
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00.000"},
		{0.5, "00:00.500"},
		{1.2345, "00:01.234"},
		{59.9999, "00:59.999"},
		{61.25, "01:01.250"},
		{3600, "60:00.000"},
		{-1, "00:00.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTime(tt.seconds), "%v", tt.seconds)
	}
}

func TestParseTime(t *testing.T) {
	secs, err := ParseTime("01:01.250")
	require.NoError(t, err)
	assert.InDelta(t, 61.25, secs, 1e-9)

	for _, bad := range []string{"", "0101.250", "01:01", "aa:01.250", "01:bb.250", "01:01.ccc"} {
		_, err := ParseTime(bad)
		assert.Error(t, err, bad)
	}
}

func TestWriteGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport()))

	want := strings.Join([]string{
		strings.Repeat("=", 60),
		"CHORD ANALYSIS RESULTS FOR: song.mp3",
		strings.Repeat("=", 60),
		"",
		"Total Duration: 00:02.500",
		"",
		"📊 CHORD PROGRESSION:",
		strings.Repeat("-", 50),
		" 1. C    | 00:00.000 - 00:01.500 | Duration: 00:01.500",
		" 2. F#m  | 00:01.500 - 00:02.500 | Duration: 00:01.000",
		"",
		"|-----|-----|",
		"  C    F#m  ",
		"",
		"🎵 CHORD FREQUENCY:",
		strings.Repeat("-", 30),
		"C   :  75.0% (3 frames)",
		"F#m :  25.0% (1 frames)",
		"",
		strings.Repeat("=", 60),
		"",
	}, "\n")

	assert.Equal(t, want, buf.String())
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Report{Source: "silence.wav"}))

	out := buf.String()
	assert.Contains(t, out, "No clear chord progression detected.\n")
	assert.Contains(t, out, "No chords detected.\n")

	segs, err := Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Empty(t, segs)
}

func TestRoundTrip(t *testing.T) {
	r := sampleReport()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r))

	segs, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, segs, len(r.Progression))

	for i, seg := range segs {
		assert.Equal(t, r.Progression[i].Chord, seg.Chord)
		assert.InDelta(t, r.Progression[i].StartTime, seg.StartTime, 1e-3)
		assert.InDelta(t, r.Progression[i].EndTime, seg.EndTime, 1e-3)
		assert.InDelta(t, r.Progression[i].Duration, seg.Duration, 1e-3)
	}
}

func TestRoundTripEveryChord(t *testing.T) {
	var segs []tonal.ChordSegment
	for i, c := range tonal.Chords() {
		segs = append(segs, tonal.NewChordSegment(c, float64(i), float64(i+1)))
	}

	path := filepath.Join(t.TempDir(), DefaultOutputFile)
	require.NoError(t, SaveFile(path, Report{Source: "all.wav", TotalDuration: 24, Progression: segs}))

	parsed, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, parsed, tonal.NumChords)
	for i, seg := range parsed {
		assert.Equal(t, segs[i].Chord, seg.Chord)
	}

	// saving again overwrites
	require.NoError(t, SaveFile(path, Report{Source: "none.wav"}))
	parsed, err = ParseFile(path)
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestParseMissingSection(t *testing.T) {
	_, err := Parse(strings.NewReader("nothing to see here"))
	assert.ErrorIs(t, err, ErrNoProgression)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseIgnoresFrequencySection(t *testing.T) {
	text := "📊 CHORD PROGRESSION:\n" + strings.Repeat("-", 50) + "\n" +
		" 1. Am   | 00:00.000 - 00:02.000 | Duration: 00:02.000\n" +
		"🎵 CHORD FREQUENCY:\n" +
		" 2. G    | 00:02.000 - 00:03.000 | Duration: 00:01.000\n"

	segs, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, tonal.AMinor, segs[0].Chord)
}

func TestEncodeFormats(t *testing.T) {
	r := sampleReport()

	var text bytes.Buffer
	require.NoError(t, Encode(&text, r, FormatText))
	assert.Contains(t, text.String(), "CHORD ANALYSIS RESULTS FOR: song.mp3")

	var js bytes.Buffer
	require.NoError(t, Encode(&js, r, FormatJSON))
	var fromJSON Document
	require.NoError(t, json.Unmarshal(js.Bytes(), &fromJSON))
	assert.Equal(t, NewDocument(r), fromJSON)
	assert.Contains(t, js.String(), `"chord": "F#m"`)

	var mp bytes.Buffer
	require.NoError(t, Encode(&mp, r, FormatMsgpack))
	var fromMsgpack Document
	require.NoError(t, msgpack.Unmarshal(mp.Bytes(), &fromMsgpack))
	assert.Equal(t, NewDocument(r), fromMsgpack)

	assert.Error(t, Encode(&mp, r, Format("xml")))
}

func TestNewDocumentFrequency(t *testing.T) {
	doc := NewDocument(sampleReport())
	require.Len(t, doc.Frequency, 2)
	assert.Equal(t, Frequency{Chord: tonal.CMajor, Count: 3, Percentage: 75}, doc.Frequency[0])
	assert.Equal(t, Frequency{Chord: tonal.FSharpMinor, Count: 1, Percentage: 25}, doc.Frequency[1])

	empty := NewDocument(Report{})
	assert.NotNil(t, empty.Progression)
	assert.Empty(t, empty.Frequency)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestFromResult(t *testing.T) {
	result := &progression.Result{
		Progression:   []tonal.ChordSegment{tonal.NewChordSegment(tonal.GMajor, 0, 1)},
		Statistics:    tonal.ChordStatistics{tonal.GMajor: 4},
		TotalDuration: 1,
	}
	r := FromResult("x.wav", result)
	assert.Equal(t, "x.wav", r.Source)
	assert.Equal(t, result.Progression, r.Progression)
	assert.Equal(t, result.Statistics, r.Statistics)
}
