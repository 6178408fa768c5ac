// Package handler provides HTTP handlers for the PSI map API.
package handler

import (
	"net/http"
	"time"

	"github.com/singaporepsi/psimap/internal/api/models"
	"github.com/singaporepsi/psimap/internal/api/response"
	"github.com/singaporepsi/psimap/internal/provider/resilience"
	"github.com/singaporepsi/psimap/internal/psi"
)

// SnapshotHolder exposes the last loaded view.
type SnapshotHolder interface {
	Last() *psi.View
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	snapshots SnapshotHolder
	registry  *resilience.Registry
	now       func() time.Time
}

// OpsHandlerConfig holds dependencies for the OpsHandler.
type OpsHandlerConfig struct {
	Version   string
	BuildTime string
	Snapshots SnapshotHolder
	Registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsHandlerConfig) *OpsHandler {
	return &OpsHandler{
		version:   cfg.Version,
		buildTime: cfg.BuildTime,
		snapshots: cfg.Snapshots,
		registry:  cfg.Registry,
		now:       time.Now,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - ready once a snapshot is loaded.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.now()),
	}

	view := h.lastView()
	if view == nil {
		health.Status = models.HealthStatusFail
		health.Details = map[string]interface{}{"reason": "no PSI snapshot loaded"}
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}

	health.Details = map[string]interface{}{"requestedAt": view.RequestedAt}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - snapshot and upstream status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       models.Timestamp(h.now()),
		Subsystems: []models.SubsystemStatus{h.snapshotStatus()},
		Providers:  h.providerStatuses(),
	}

	for _, s := range status.Subsystems {
		status.Status = worst(status.Status, s.Status)
	}
	for _, p := range status.Providers {
		status.Status = worst(status.Status, p.Status)
	}

	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) lastView() *psi.View {
	if h.snapshots == nil {
		return nil
	}
	return h.snapshots.Last()
}

func (h *OpsHandler) snapshotStatus() models.SubsystemStatus {
	s := models.SubsystemStatus{Name: "psi-snapshot", Status: models.HealthStatusOK}

	view := h.lastView()
	if view == nil {
		detail := "no snapshot loaded"
		s.Status = models.HealthStatusDegraded
		s.Detail = &detail
		return s
	}
	if !view.Status.Healthy {
		s.Status = models.HealthStatusDegraded
		s.Detail = &view.Status.Text
	}
	return s
}

func (h *OpsHandler) providerStatuses() []models.ProviderStatus {
	if h.registry == nil {
		return []models.ProviderStatus{}
	}

	all := h.registry.GetAllHealth()
	statuses := make([]models.ProviderStatus, 0, len(all))
	for _, u := range all {
		p := models.ProviderStatus{
			Provider:            u.Name,
			Status:              models.HealthStatusOK,
			CircuitState:        u.CircuitState.String(),
			ConsecutiveFailures: u.Counts.ConsecutiveFailures,
			LastSuccessAt:       timestampPtr(u.LastSuccessAt),
			LastFailureAt:       timestampPtr(u.LastFailureAt),
		}
		switch {
		case u.IsUnhealthy():
			p.Status = models.HealthStatusFail
		case u.IsDegraded(), u.Counts.ConsecutiveFailures > 0:
			p.Status = models.HealthStatusDegraded
		}
		if u.LastError != "" {
			msg := u.LastError
			p.Message = &msg
		}
		statuses = append(statuses, p)
	}
	return statuses
}

func timestampPtr(t *time.Time) *models.Timestamp {
	if t == nil {
		return nil
	}
	ts := models.Timestamp(*t)
	return &ts
}

var severity = map[models.HealthStatus]int{
	models.HealthStatusOK:       0,
	models.HealthStatusDegraded: 1,
	models.HealthStatusFail:     2,
}

func worst(a, b models.HealthStatus) models.HealthStatus {
	if severity[b] > severity[a] {
		return b
	}
	return a
}
