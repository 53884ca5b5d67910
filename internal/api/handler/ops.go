// Package handler provides HTTP handlers for the TerraSense API.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker/v2"

	"github.com/terrasense/terrasense/internal/api/models"
	"github.com/terrasense/terrasense/internal/api/response"
	"github.com/terrasense/terrasense/internal/featureflags"
	"github.com/terrasense/terrasense/internal/notification"
	"github.com/terrasense/terrasense/internal/provider/resilience"
)

// dependencyCheckTimeout bounds each subsystem probe.
const dependencyCheckTimeout = 2 * time.Second

// OpsConfig holds the dependencies the operational endpoints report on.
type OpsConfig struct {
	Version   string
	BuildTime string

	// DB is pinged by the readiness check (optional).
	DB *pgxpool.Pool

	// Registry reports external provider health (optional).
	Registry *resilience.Registry

	// Flags surfaces active degradation toggles (optional).
	Flags *featureflags.Service

	// Hub reports live websocket subscriber counts (optional).
	Hub *notification.Hub
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	cfg OpsConfig
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{cfg: cfg}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.cfg.Version,
			"buildTime": h.cfg.BuildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Not ready
// means the database is unreachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if err := h.pingDB(r.Context()); err != nil {
		health.Status = models.HealthStatusFail
		health.Details = map[string]interface{}{"database": err.Error()}
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   now,
	}

	dbStatus := models.SubsystemStatus{Name: "database", Status: models.HealthStatusOK}
	if err := h.pingDB(r.Context()); err != nil {
		dbStatus.Status = models.HealthStatusFail
		detail := err.Error()
		dbStatus.Detail = &detail
		status.Status = models.HealthStatusDegraded
	}
	status.Subsystems = append(status.Subsystems, dbStatus)

	if h.cfg.Hub != nil {
		detail := fmt.Sprintf("%d live subscribers", h.cfg.Hub.SubscriberCount())
		status.Subsystems = append(status.Subsystems, models.SubsystemStatus{
			Name:   "notification-hub",
			Status: models.HealthStatusOK,
			Detail: &detail,
		})
	}

	if h.cfg.Registry != nil {
		for _, ph := range h.cfg.Registry.GetAllHealth() {
			provider := toProviderStatus(ph)
			if provider.Status != models.HealthStatusOK {
				status.Status = models.HealthStatusDegraded
			}
			status.Providers = append(status.Providers, provider)
		}
	}

	if h.cfg.Flags != nil {
		status.ActiveDegradationFlags = h.cfg.Flags.ActiveDegradationFlags(r.Context())
		if len(status.ActiveDegradationFlags) > 0 {
			status.Status = models.HealthStatusDegraded
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

// pingDB checks database reachability within the probe timeout.
func (h *OpsHandler) pingDB(ctx context.Context) error {
	if h.cfg.DB == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, dependencyCheckTimeout)
	defer cancel()
	return h.cfg.DB.Ping(ctx)
}

// toProviderStatus maps circuit state onto the API health vocabulary:
// closed is healthy, half-open is degraded, open is failing.
func toProviderStatus(ph *resilience.ProviderHealth) models.ProviderStatus {
	out := models.ProviderStatus{
		Provider: ph.Name,
		Status:   models.HealthStatusOK,
	}

	switch ph.CircuitState {
	case gobreaker.StateHalfOpen:
		out.Status = models.HealthStatusDegraded
	case gobreaker.StateOpen:
		out.Status = models.HealthStatusFail
	}

	if ph.LastSuccessAt != nil {
		at := models.Timestamp(*ph.LastSuccessAt)
		out.LastSuccessAt = &at
	}
	if ph.LastFailureAt != nil {
		at := models.Timestamp(*ph.LastFailureAt)
		out.LastFailureAt = &at
	}
	if ph.LastError != "" && ph.ConsecutiveFailures > 0 {
		msg := ph.LastError
		out.Message = &msg
	}

	return out
}
