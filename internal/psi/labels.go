package psi

// Metric identifies one of the twelve PSI sub-readings by its wire key.
type Metric string

const (
	MetricO3SubIndex           Metric = "o3_sub_index"
	MetricO3EightHourMax       Metric = "o3_eight_hour_max"
	MetricPM10SubIndex         Metric = "pm10_sub_index"
	MetricPM10TwentyFourHourly Metric = "pm10_twenty_four_hourly"
	MetricPM25SubIndex         Metric = "pm25_sub_index"
	MetricPM25TwentyFourHourly Metric = "pm25_twenty_four_hourly"
	MetricCOSubIndex           Metric = "co_sub_index"
	MetricCOEightHourMax       Metric = "co_eight_hour_max"
	MetricSO2SubIndex          Metric = "so2_sub_index"
	MetricSO2TwentyFourHourly  Metric = "so2_twenty_four_hourly"
	MetricNO2OneHourMax        Metric = "no2_one_hour_max"
	MetricPSITwentyFourHourly  Metric = "psi_twenty_four_hourly"
)

var metricLabels = map[Metric]string{
	MetricO3SubIndex:           "Ozone Sub Index",
	MetricO3EightHourMax:       "Ozone (8 hours max)",
	MetricPM10SubIndex:         "PM10 Sub Index",
	MetricPM10TwentyFourHourly: "PM10 (in 24 hours)",
	MetricPM25SubIndex:         "PM25 Sub Index",
	MetricPM25TwentyFourHourly: "PM25 (in 24 hours)",
	MetricCOSubIndex:           "CO Sub Index",
	MetricCOEightHourMax:       "CO (8 hours max)",
	MetricSO2SubIndex:          "SO2 Sub Index",
	MetricSO2TwentyFourHourly:  "SO2 (in 24 hours)",
	MetricNO2OneHourMax:        "NO2 (1 hour max)",
	MetricPSITwentyFourHourly:  "PSI (in 24 hours)",
}

// displayOrder is the order entries appear in a region summary.
var displayOrder = [...]Metric{
	MetricPSITwentyFourHourly,
	MetricO3SubIndex,
	MetricO3EightHourMax,
	MetricPM10SubIndex,
	MetricPM10TwentyFourHourly,
	MetricPM25SubIndex,
	MetricPM25TwentyFourHourly,
	MetricCOSubIndex,
	MetricCOEightHourMax,
	MetricSO2SubIndex,
	MetricSO2TwentyFourHourly,
	MetricNO2OneHourMax,
}

var directionTitles = map[Direction]string{
	DirectionNorth:    "North",
	DirectionSouth:    "South",
	DirectionEast:     "East",
	DirectionWest:     "West",
	DirectionCentral:  "Central",
	DirectionNational: "National",
}

// Label returns the display label for m, or "" for an unknown metric.
func (m Metric) Label() string {
	return metricLabels[m]
}

// DisplayOrder returns the metrics in summary order. The returned slice is a
// copy and may be modified by the caller.
func DisplayOrder() []Metric {
	order := displayOrder
	return order[:]
}

// Title returns the display title for d, or "" when d is not recognized.
func (d Direction) Title() string {
	return directionTitles[d]
}
