package controllers

import (
	"fmt"
	json "github.com/goccy/go-json"
	"invitebot/internal/models"
	"net/http"
	"time"
)

// GatewayStatus reports the state of the gateway connection.
type GatewayStatus interface {
	Ready() bool
	JoinsHandled() int64
}

type HealthController struct {
	gateway   GatewayStatus
	store     *models.SnapshotStore
	history   *models.AttributionLog
	startTime time.Time
}

type healthResponse struct {
	Status            string  `json:"status"`
	Uptime            string  `json:"uptime"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
	Ready             bool    `json:"ready"`
	Guilds            int     `json:"guilds"`
	JoinsHandled      int64   `json:"joins_handled"`
	AttributionsTotal int64   `json:"attributions_total"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:            "ok",
		Uptime:            formatDuration(uptime),
		UptimeSeconds:     uptime.Seconds(),
		Ready:             hc.gateway.Ready(),
		Guilds:            hc.store.Len(),
		JoinsHandled:      hc.gateway.JoinsHandled(),
		AttributionsTotal: hc.history.Total(),
	}
	if !resp.Ready {
		resp.Status = "starting"
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(gateway *EventController, store *models.SnapshotStore, history *models.AttributionLog) *HealthController {
	return newHealthController(gateway, store, history)
}

func newHealthController(gateway GatewayStatus, store *models.SnapshotStore, history *models.AttributionLog) *HealthController {
	return &HealthController{
		gateway:   gateway,
		store:     store,
		history:   history,
		startTime: time.Now(),
	}
}
