package api

import (
	"fmt"
	"net/http"
	"time"

	"burrow-server/game"

	"github.com/go-chi/chi/v5"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthDegraded HealthStatus = "degraded"
	HealthDown     HealthStatus = "down"
)

// MetricsResponse is the complete metrics response structure
type MetricsResponse struct {
	Timestamp         time.Time         `json:"timestamp"`
	Health            HealthStatus      `json:"health"`
	HealthDescription string            `json:"health_description"`
	Hazards           game.HazardCounts `json:"hazards"`
	ActiveConnections int               `json:"active_connections"`
	ServerUptime      int64             `json:"server_uptime_sec"`
}

// MetricsHandler reports hazard and connection metrics from the live game
// server.
type MetricsHandler struct {
	cfg             Config
	gameServer      *game.GameServer
	serverStartTime time.Time

	// Thresholds for health status
	warnTrappedGuards int
	warnActiveHoles   int
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(cfg Config, gameServer *game.GameServer) *MetricsHandler {
	return &MetricsHandler{
		cfg:               cfg,
		gameServer:        gameServer,
		serverStartTime:   time.Now(),
		warnTrappedGuards: 20,
		warnActiveHoles:   200,
	}
}

// Routes registers metrics routes
func (h *MetricsHandler) Routes(r chi.Router) {
	r.Get("/metrics", h.GetMetrics)
	r.Get("/metrics/health", h.GetHealth)
	r.Get("/metrics/hazards", h.GetHazards)
}

// GetMetrics returns complete metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collectMetrics())
}

// GetHealth returns only health status
func (h *MetricsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	metrics := h.collectMetrics()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"timestamp":   metrics.Timestamp,
		"health":      metrics.Health,
		"description": metrics.HealthDescription,
		"uptime_sec":  metrics.ServerUptime,
	})
}

// GetHazards returns only the hazard bookkeeping counts
func (h *MetricsHandler) GetHazards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collectMetrics().Hazards)
}

// collectMetrics gathers all metrics from the system
func (h *MetricsHandler) collectMetrics() *MetricsResponse {
	resp := &MetricsResponse{
		Timestamp:    time.Now(),
		ServerUptime: int64(time.Since(h.serverStartTime).Seconds()),
	}
	if h.gameServer == nil {
		resp.Health = HealthDown
		resp.HealthDescription = "Game server not running"
		return resp
	}
	resp.Hazards = h.gameServer.GetHazardCounts()
	resp.ActiveConnections = h.gameServer.GetConnectedClientsCount()
	resp.Health, resp.HealthDescription = h.determineHealth(resp)
	return resp
}

// determineHealth maps the hazard workload onto a health verdict.
func (h *MetricsHandler) determineHealth(m *MetricsResponse) (HealthStatus, string) {
	if m.Hazards.ActiveHoles >= h.warnActiveHoles {
		return HealthDegraded, fmt.Sprintf("%d active hole timelines - hazard bookkeeping under heavy load", m.Hazards.ActiveHoles)
	}
	if m.Hazards.TrappedGuards >= h.warnTrappedGuards {
		return HealthWarning, fmt.Sprintf("%d guards awaiting hazard resolution - monitor tick latency", m.Hazards.TrappedGuards)
	}
	if m.ActiveConnections > 0 {
		connStr := "connection"
		if m.ActiveConnections > 1 {
			connStr = "connections"
		}
		return HealthHealthy, fmt.Sprintf("All systems operational - %d active %s", m.ActiveConnections, connStr)
	}
	return HealthHealthy, "Server ready and operational - awaiting connections"
}
