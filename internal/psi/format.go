package psi

import (
	"strconv"
	"strings"
)

// Entry is one labeled value in a region summary.
type Entry struct {
	Metric Metric
	Label  string

	// Value is the reading, or 0 when the upstream omitted it.
	Value float64

	// Present is false when Value is the zero placeholder.
	Present bool
}

// Text returns the display form of the value.
func (e Entry) Text() string {
	return strconv.FormatFloat(e.Value, 'f', -1, 64)
}

// RegionSummary is the presentation-ready summary for one direction.
type RegionSummary struct {
	Direction Direction
	Label     string
	Entries   []Entry
}

// DetailText renders the summary as "label: value" lines.
func (s RegionSummary) DetailText() string {
	var b strings.Builder
	for i, e := range s.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Label)
		b.WriteString(": ")
		b.WriteString(e.Text())
	}
	return b.String()
}

// FormatRegion summarizes set for direction d in display order.
// An unrecognized direction yields an empty label and no entries.
func FormatRegion(set SubReadingSet, d Direction) RegionSummary {
	if !d.Valid() {
		return RegionSummary{Direction: d}
	}

	entries := make([]Entry, 0, len(displayOrder))
	for _, m := range displayOrder {
		entry := Entry{
			Metric: m,
			Label:  m.Label(),
		}
		if v := set.Values(m).Get(d); v != nil {
			entry.Value = *v
			entry.Present = true
		}
		entries = append(entries, entry)
	}

	return RegionSummary{
		Direction: d,
		Label:     d.Title(),
		Entries:   entries,
	}
}
