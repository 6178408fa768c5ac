// Package psi provides the Singapore Pollutant Standards Index data model,
// decoding, and per-region formatting for map display.
package psi

import (
	"context"
	"errors"
)

// Errors surfaced by the PSI pipeline.
var (
	ErrMalformedResponse = errors.New("malformed PSI response")
	ErrFetchFailed       = errors.New("PSI fetch failed")
	ErrInvalidTimestamp  = errors.New("invalid PSI timestamp")
	ErrNoSnapshot        = errors.New("no PSI snapshot loaded")
	ErrSuperseded        = errors.New("PSI fetch superseded by a newer request")
)

// Provider fetches a snapshot for a Singapore local timestamp.
type Provider interface {
	FetchSnapshot(ctx context.Context, timestamp string) (*Snapshot, error)
}

// Direction is one of the six reporting zones. Values outside the known set
// are kept as-is so callers can see what the upstream sent.
type Direction string

const (
	DirectionNorth    Direction = "north"
	DirectionSouth    Direction = "south"
	DirectionEast     Direction = "east"
	DirectionWest     Direction = "west"
	DirectionCentral  Direction = "central"
	DirectionNational Direction = "national"
)

// Valid reports whether d is a recognized direction.
func (d Direction) Valid() bool {
	switch d {
	case DirectionNorth, DirectionSouth, DirectionEast, DirectionWest, DirectionCentral, DirectionNational:
		return true
	default:
		return false
	}
}

// Snapshot is one decoded PSI response.
type Snapshot struct {
	Regions []RegionMeta
	Items   []Reading

	// Status is api_info.status, e.g. "healthy".
	Status *string
}

// FirstReading returns the first reading, or false when there are none.
func (s *Snapshot) FirstReading() (Reading, bool) {
	if s == nil || len(s.Items) == 0 {
		return Reading{}, false
	}
	return s.Items[0], true
}

// RegionMeta describes a reporting region and where to label it.
type RegionMeta struct {
	Direction Direction
	Location  *Location
}

// Location is a label position. Either coordinate may be absent.
type Location struct {
	Latitude  *float64
	Longitude *float64
}

// Reading is the set of sub-readings reported at one point in time.
type Reading struct {
	Timestamp       *string
	UpdateTimestamp *string
	Readings        SubReadingSet
}

// SubReadingSet holds per-region values for the twelve PSI metrics.
type SubReadingSet struct {
	O3SubIndex           RegionValues
	O3EightHourMax       RegionValues
	PM10SubIndex         RegionValues
	PM10TwentyFourHourly RegionValues
	PM25SubIndex         RegionValues
	PM25TwentyFourHourly RegionValues
	COSubIndex           RegionValues
	COEightHourMax       RegionValues
	SO2SubIndex          RegionValues
	SO2TwentyFourHourly  RegionValues
	NO2OneHourMax        RegionValues
	PSITwentyFourHourly  RegionValues
}

// Values returns the region values for a metric.
func (s SubReadingSet) Values(m Metric) RegionValues {
	switch m {
	case MetricO3SubIndex:
		return s.O3SubIndex
	case MetricO3EightHourMax:
		return s.O3EightHourMax
	case MetricPM10SubIndex:
		return s.PM10SubIndex
	case MetricPM10TwentyFourHourly:
		return s.PM10TwentyFourHourly
	case MetricPM25SubIndex:
		return s.PM25SubIndex
	case MetricPM25TwentyFourHourly:
		return s.PM25TwentyFourHourly
	case MetricCOSubIndex:
		return s.COSubIndex
	case MetricCOEightHourMax:
		return s.COEightHourMax
	case MetricSO2SubIndex:
		return s.SO2SubIndex
	case MetricSO2TwentyFourHourly:
		return s.SO2TwentyFourHourly
	case MetricNO2OneHourMax:
		return s.NO2OneHourMax
	case MetricPSITwentyFourHourly:
		return s.PSITwentyFourHourly
	default:
		return RegionValues{}
	}
}

// RegionValues holds one optional value per direction.
type RegionValues struct {
	West     *float64
	East     *float64
	South    *float64
	North    *float64
	Central  *float64
	National *float64
}

// Get returns the value for a direction. Unknown directions and absent
// values both yield nil.
func (v RegionValues) Get(d Direction) *float64 {
	switch d {
	case DirectionWest:
		return v.West
	case DirectionEast:
		return v.East
	case DirectionSouth:
		return v.South
	case DirectionNorth:
		return v.North
	case DirectionCentral:
		return v.Central
	case DirectionNational:
		return v.National
	default:
		return nil
	}
}
