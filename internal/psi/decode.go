package psi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode parses a PSI API response body.
//
// Only a document that is not valid JSON fails, with ErrMalformedResponse.
// Missing keys, nulls and values of the wrong type decode as absent fields.
func Decode(data []byte) (*Snapshot, error) {
	if !json.Valid(data) {
		return nil, ErrMalformedResponse
	}

	var doc lenient[wireSnapshot]
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return doc.value.toSnapshot(), nil
}

// lenient decodes a T when the JSON value fits and is otherwise absent.
// It never reports an error, so one bad field cannot fail its parent.
type lenient[T any] struct {
	value T
	ok    bool
}

func (l *lenient[T]) UnmarshalJSON(data []byte) error {
	*l = lenient[T]{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil //nolint:nilerr // mismatched field is absent
	}
	l.value, l.ok = v, true
	return nil
}

func (l lenient[T]) ptr() *T {
	if !l.ok {
		return nil
	}
	v := l.value
	return &v
}

// Wire types (from the data.gov.sg PSI API).

type wireSnapshot struct {
	RegionMetadata lenient[[]lenient[wireRegion]] `json:"region_metadata"`
	Items          lenient[[]lenient[wireItem]]   `json:"items"`
	APIInfo        lenient[wireAPIInfo]           `json:"api_info"`
}

type wireAPIInfo struct {
	Status lenient[string] `json:"status"`
}

type wireRegion struct {
	Name          lenient[string]       `json:"name"`
	LabelLocation lenient[wireLocation] `json:"label_location"`
}

type wireLocation struct {
	Latitude  lenient[float64] `json:"latitude"`
	Longitude lenient[float64] `json:"longitude"`
}

type wireItem struct {
	Timestamp       lenient[string]       `json:"timestamp"`
	UpdateTimestamp lenient[string]       `json:"update_timestamp"`
	Readings        lenient[wireReadings] `json:"readings"`
}

type wireReadings struct {
	O3SubIndex           lenient[wireRegionValues] `json:"o3_sub_index"`
	O3EightHourMax       lenient[wireRegionValues] `json:"o3_eight_hour_max"`
	PM10SubIndex         lenient[wireRegionValues] `json:"pm10_sub_index"`
	PM10TwentyFourHourly lenient[wireRegionValues] `json:"pm10_twenty_four_hourly"`
	PM25SubIndex         lenient[wireRegionValues] `json:"pm25_sub_index"`
	PM25TwentyFourHourly lenient[wireRegionValues] `json:"pm25_twenty_four_hourly"`
	COSubIndex           lenient[wireRegionValues] `json:"co_sub_index"`
	COEightHourMax       lenient[wireRegionValues] `json:"co_eight_hour_max"`
	SO2SubIndex          lenient[wireRegionValues] `json:"so2_sub_index"`
	SO2TwentyFourHourly  lenient[wireRegionValues] `json:"so2_twenty_four_hourly"`
	NO2OneHourMax        lenient[wireRegionValues] `json:"no2_one_hour_max"`
	PSITwentyFourHourly  lenient[wireRegionValues] `json:"psi_twenty_four_hourly"`
}

type wireRegionValues struct {
	West     lenient[float64] `json:"west"`
	National lenient[float64] `json:"national"`
	East     lenient[float64] `json:"east"`
	Central  lenient[float64] `json:"central"`
	South    lenient[float64] `json:"south"`
	North    lenient[float64] `json:"north"`
}

func (w wireSnapshot) toSnapshot() *Snapshot {
	s := &Snapshot{
		Status: w.APIInfo.value.Status.ptr(),
	}

	for _, r := range w.RegionMetadata.value {
		if !r.ok {
			continue
		}
		s.Regions = append(s.Regions, r.value.toRegionMeta())
	}

	for _, item := range w.Items.value {
		if !item.ok {
			continue
		}
		s.Items = append(s.Items, item.value.toReading())
	}

	return s
}

func (w wireRegion) toRegionMeta() RegionMeta {
	meta := RegionMeta{
		Direction: Direction(w.Name.value),
	}
	if w.LabelLocation.ok {
		meta.Location = &Location{
			Latitude:  w.LabelLocation.value.Latitude.ptr(),
			Longitude: w.LabelLocation.value.Longitude.ptr(),
		}
	}
	return meta
}

func (w wireItem) toReading() Reading {
	r := w.Readings.value
	return Reading{
		Timestamp:       w.Timestamp.ptr(),
		UpdateTimestamp: w.UpdateTimestamp.ptr(),
		Readings: SubReadingSet{
			O3SubIndex:           r.O3SubIndex.value.toRegionValues(),
			O3EightHourMax:       r.O3EightHourMax.value.toRegionValues(),
			PM10SubIndex:         r.PM10SubIndex.value.toRegionValues(),
			PM10TwentyFourHourly: r.PM10TwentyFourHourly.value.toRegionValues(),
			PM25SubIndex:         r.PM25SubIndex.value.toRegionValues(),
			PM25TwentyFourHourly: r.PM25TwentyFourHourly.value.toRegionValues(),
			COSubIndex:           r.COSubIndex.value.toRegionValues(),
			COEightHourMax:       r.COEightHourMax.value.toRegionValues(),
			SO2SubIndex:          r.SO2SubIndex.value.toRegionValues(),
			SO2TwentyFourHourly:  r.SO2TwentyFourHourly.value.toRegionValues(),
			NO2OneHourMax:        r.NO2OneHourMax.value.toRegionValues(),
			PSITwentyFourHourly:  r.PSITwentyFourHourly.value.toRegionValues(),
		},
	}
}

func (w wireRegionValues) toRegionValues() RegionValues {
	return RegionValues{
		West:     w.West.ptr(),
		East:     w.East.ptr(),
		South:    w.South.ptr(),
		North:    w.North.ptr(),
		Central:  w.Central.ptr(),
		National: w.National.ptr(),
	}
}
