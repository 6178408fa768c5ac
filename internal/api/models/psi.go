package models

// AppStatus is the upstream-reported API status line.
type AppStatus struct {
	Value   string `json:"value"`
	Healthy bool   `json:"healthy"`
	Text    string `json:"text"`
}

// Entry is one labeled value in a region summary. Present is false when the
// upstream omitted the value and Value holds the zero fallback.
type Entry struct {
	Metric  string  `json:"metric"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
}

// RegionSummary is the formatted readings for one direction.
type RegionSummary struct {
	Direction  string  `json:"direction"`
	Label      string  `json:"label"`
	DetailText string  `json:"detailText"`
	Entries    []Entry `json:"entries"`
}

// Annotation is a map marker for one region.
type Annotation struct {
	Direction  string        `json:"direction"`
	Label      string        `json:"label"`
	Coordinate Point         `json:"coordinate"`
	DetailText string        `json:"detailText"`
	Summary    RegionSummary `json:"summary"`
}

// PSIMap is the response for GET /v1/psi.
type PSIMap struct {
	Status      AppStatus     `json:"status"`
	RequestedAt string        `json:"requestedAt"`
	UpdatedAt   *string       `json:"updatedAt,omitempty"`
	Annotations []Annotation  `json:"annotations"`
	National    RegionSummary `json:"national"`
}
