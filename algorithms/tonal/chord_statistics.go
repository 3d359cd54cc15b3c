package tonal

import "sort"

// ChordStatistics counts frames per chord. Unknown frames are never counted.
type ChordStatistics map[Chord]int

// ChordCount is one entry of a frequency table
type ChordCount struct {
	Chord Chord `json:"chord" msgpack:"chord"`
	Count int   `json:"count" msgpack:"count"`
}

// Aggregate tallies every known label
func Aggregate(labels []Label) ChordStatistics {
	counts := make(ChordStatistics)
	for _, label := range labels {
		if c, ok := label.Chord(); ok {
			counts[c]++
		}
	}
	return counts
}

// Total returns the number of counted frames
func (s ChordStatistics) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// MostCommon returns the entries ordered by count, highest first. Equal counts
// keep template order.
func (s ChordStatistics) MostCommon() []ChordCount {
	entries := make([]ChordCount, 0, len(s))
	for c, n := range s {
		entries = append(entries, ChordCount{Chord: c, Count: n})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Chord < entries[j].Chord
	})

	return entries
}

// Percentages returns each chord's share of the counted frames in percent.
// Empty statistics give an empty map.
func (s ChordStatistics) Percentages() map[Chord]float64 {
	out := make(map[Chord]float64, len(s))
	total := s.Total()
	if total == 0 {
		return out
	}
	for c, n := range s {
		out[c] = float64(n) / float64(total) * 100
	}
	return out
}
