package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/singaporepsi/psimap/internal/api/models"
	"github.com/singaporepsi/psimap/internal/api/response"
	"github.com/singaporepsi/psimap/internal/psi"
)

// PSIService fetches snapshots and formats regions from the last one.
type PSIService interface {
	Fetch(ctx context.Context) (*psi.View, error)
	Region(d psi.Direction) (psi.RegionSummary, error)
}

// PSIHandler handles PSI map endpoints.
type PSIHandler struct {
	service PSIService
	logger  zerolog.Logger
}

// NewPSIHandler creates a new PSIHandler.
func NewPSIHandler(service PSIService, logger zerolog.Logger) *PSIHandler {
	return &PSIHandler{
		service: service,
		logger:  logger,
	}
}

// GetMap handles GET /v1/psi - fetch the current readings for the map.
// Every call fetches from upstream for this caller alone; calling it again is
// the retry.
func (h *PSIHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Fetch(r.Context())
	if err != nil {
		response.NoData(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, toPSIMap(view))
}

// GetRegion handles GET /v1/psi/regions/{direction} - format one region of
// the last loaded snapshot.
func (h *PSIHandler) GetRegion(w http.ResponseWriter, r *http.Request) {
	direction := psi.Direction(chi.URLParam(r, "direction"))

	summary, err := h.service.Region(direction)
	if errors.Is(err, psi.ErrNoSnapshot) {
		response.NotFound(w, r, "no PSI snapshot has been loaded yet")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("direction", string(direction)).Msg("failed to format region")
		response.InternalError(w, r, "failed to format region")
		return
	}

	response.JSON(w, r, http.StatusOK, toRegionSummary(summary))
}

func toPSIMap(v *psi.View) models.PSIMap {
	out := models.PSIMap{
		Status: models.AppStatus{
			Value:   v.Status.Value,
			Healthy: v.Status.Healthy,
			Text:    v.Status.Text,
		},
		RequestedAt: v.RequestedAt,
		Annotations: make([]models.Annotation, 0, len(v.Annotations)),
		National:    toRegionSummary(v.National),
	}
	if reading, ok := v.Snapshot.FirstReading(); ok {
		out.UpdatedAt = reading.UpdateTimestamp
	}

	for _, a := range v.Annotations {
		c := a.Coordinate()
		out.Annotations = append(out.Annotations, models.Annotation{
			Direction:  string(a.Direction()),
			Label:      a.Label(),
			Coordinate: models.Point{Lat: c.Lat, Lon: c.Lon},
			DetailText: a.DetailText(),
			Summary:    toRegionSummary(a.Summary()),
		})
	}
	return out
}

func toRegionSummary(s psi.RegionSummary) models.RegionSummary {
	entries := make([]models.Entry, 0, len(s.Entries))
	for _, e := range s.Entries {
		entries = append(entries, models.Entry{
			Metric:  string(e.Metric),
			Label:   e.Label,
			Value:   e.Value,
			Present: e.Present,
		})
	}
	return models.RegionSummary{
		Direction:  string(s.Direction),
		Label:      s.Label,
		DetailText: s.DetailText(),
		Entries:    entries,
	}
}
