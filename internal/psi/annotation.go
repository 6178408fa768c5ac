package psi

// Coordinate is a map position in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// MapMarker is what a map view needs to place and describe a pin.
type MapMarker interface {
	Coordinate() Coordinate
	Label() string
	DetailText() string
}

// Annotation is a region pin with its formatted summary.
type Annotation struct {
	coordinate Coordinate
	summary    RegionSummary
}

var _ MapMarker = Annotation{}

// NewAnnotation creates an annotation for a region summary at a coordinate.
func NewAnnotation(coordinate Coordinate, summary RegionSummary) Annotation {
	return Annotation{coordinate: coordinate, summary: summary}
}

func (a Annotation) Coordinate() Coordinate { return a.coordinate }
func (a Annotation) Label() string          { return a.summary.Label }
func (a Annotation) DetailText() string     { return a.summary.DetailText() }

// Direction returns the region the annotation belongs to.
func (a Annotation) Direction() Direction { return a.summary.Direction }

// Summary returns the structured summary behind DetailText.
func (a Annotation) Summary() RegionSummary { return a.summary }

// BuildAnnotations returns one map annotation per located, recognized
// region other than national, in region metadata order. Summaries are taken
// from the snapshot's first reading.
func BuildAnnotations(s *Snapshot) []Annotation {
	if s == nil {
		return nil
	}
	reading, _ := s.FirstReading()

	var annotations []Annotation
	for _, region := range s.Regions {
		if !region.Direction.Valid() || region.Direction == DirectionNational || region.Location == nil {
			continue
		}
		annotations = append(annotations, NewAnnotation(
			region.Location.coordinate(),
			FormatRegion(reading.Readings, region.Direction),
		))
	}
	return annotations
}

// NationalSummary formats the national aggregate from the first reading.
func NationalSummary(s *Snapshot) RegionSummary {
	reading, _ := s.FirstReading()
	return FormatRegion(reading.Readings, DirectionNational)
}

// coordinate substitutes 0 for absent components.
func (l *Location) coordinate() Coordinate {
	var c Coordinate
	if l.Latitude != nil {
		c.Lat = *l.Latitude
	}
	if l.Longitude != nil {
		c.Lon = *l.Longitude
	}
	return c
}
