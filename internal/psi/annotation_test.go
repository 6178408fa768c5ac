package psi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singaporepsi/psimap/internal/psi"
)

func TestBuildAnnotations_Fixture(t *testing.T) {
	annotations := psi.BuildAnnotations(decodeFixture(t))

	require.Len(t, annotations, 5, "national is not placed on the map")

	var directions []psi.Direction
	for _, a := range annotations {
		directions = append(directions, a.Direction())
	}
	assert.Equal(t, []psi.Direction{
		psi.DirectionWest,
		psi.DirectionEast,
		psi.DirectionCentral,
		psi.DirectionSouth,
		psi.DirectionNorth,
	}, directions)

	north := annotations[4]
	assert.Equal(t, psi.Coordinate{Lat: 1.41803, Lon: 103.82}, north.Coordinate())
	assert.Equal(t, "North", north.Label())
	assert.Contains(t, north.DetailText(), "PSI (in 24 hours): 54")
	assert.Len(t, north.Summary().Entries, 12)
}

func TestBuildAnnotations_SkipsUnplaceableRegions(t *testing.T) {
	lat := 1.3
	snapshot := &psi.Snapshot{
		Regions: []psi.RegionMeta{
			{Direction: psi.DirectionEast},
			{Direction: psi.Direction("northwest"), Location: &psi.Location{}},
			{Direction: psi.DirectionSouth, Location: &psi.Location{Latitude: &lat}},
		},
	}

	annotations := psi.BuildAnnotations(snapshot)

	require.Len(t, annotations, 1)
	assert.Equal(t, psi.DirectionSouth, annotations[0].Direction())
	assert.Equal(t, psi.Coordinate{Lat: 1.3, Lon: 0}, annotations[0].Coordinate())
	for _, entry := range annotations[0].Summary().Entries {
		assert.False(t, entry.Present, "no readings means zero placeholders")
	}
}

func TestBuildAnnotations_Nil(t *testing.T) {
	assert.Empty(t, psi.BuildAnnotations(nil))
	assert.Empty(t, psi.BuildAnnotations(&psi.Snapshot{}))
}

func TestAnnotation_ImplementsMapMarker(t *testing.T) {
	var marker psi.MapMarker = psi.NewAnnotation(
		psi.Coordinate{Lat: 1.35735, Lon: 103.82},
		psi.FormatRegion(psi.SubReadingSet{}, psi.DirectionCentral),
	)

	assert.Equal(t, "Central", marker.Label())
	assert.Equal(t, 103.82, marker.Coordinate().Lon)
	assert.NotEmpty(t, marker.DetailText())
}

func TestNationalSummary(t *testing.T) {
	national := psi.NationalSummary(decodeFixture(t))

	assert.Equal(t, psi.DirectionNational, national.Direction)
	assert.Equal(t, "National", national.Label)
	require.Len(t, national.Entries, 12)
	assert.Equal(t, 55.0, national.Entries[0].Value)

	empty := psi.NationalSummary(nil)
	assert.Equal(t, "National", empty.Label)
	assert.Len(t, empty.Entries, 12)
}
