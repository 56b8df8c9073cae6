package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/frahmantamala/ipg-checkout/internal/ipg"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

// GatewayHealth is the part of the gateway config worth surfacing on the
// health endpoint. The shared secret never leaves the process.
type GatewayHealth struct {
	Enabled  bool
	Sandbox  bool
	Timezone string
	Currency string
}

type HealthHandler struct {
	db      *sql.DB
	gateway *GatewayHealth
}

func NewHealthHandler(db *sql.DB, gateway *GatewayHealth) *HealthHandler {
	return &HealthHandler{db: db, gateway: gateway}
}

// HandleLiveness → just says service is up
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "OK"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleReadiness → checks DB connection and gateway config
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]CheckEntry{"database": h.checkDatabase(ctx)}
	if h.gateway != nil {
		components["gateway"] = h.checkGateway()
	}

	resp := HealthResponse{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		Components: components,
	}
	for _, entry := range components {
		if entry.Status == HealthUnhealthy {
			resp.Status = HealthUnhealthy
		}
	}

	statusCode := http.StatusOK
	if resp.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckEntry {
	start := time.Now()
	err := h.db.PingContext(ctx)

	entry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	}
	return entry
}

// checkGateway resolves the merchant timezone the same way the request
// builder does, so a zone missing from the host shows up here first.
func (h *HealthHandler) checkGateway() CheckEntry {
	start := time.Now()
	entry := CheckEntry{
		Status: HealthHealthy,
		Details: map[string]any{
			"enabled":  h.gateway.Enabled,
			"sandbox":  h.gateway.Sandbox,
			"endpoint": ipg.Endpoint(h.gateway.Sandbox),
			"timezone": h.gateway.Timezone,
			"currency": h.gateway.Currency,
		},
	}

	if !h.gateway.Enabled {
		entry.Message = "gateway disabled"
	} else if loc, err := ipg.LoadLocation(h.gateway.Timezone); err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	} else {
		entry.Details["merchant_time"] = ipg.FormatTimestamp(time.Now(), loc)
	}

	entry.CheckedAt = time.Now()
	entry.DurationMs = time.Since(start).Milliseconds()
	return entry
}
