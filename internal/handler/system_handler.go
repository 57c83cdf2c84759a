package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/eduhub/examcore/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const healthTimeout = 2 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// SystemHandler reports liveness of the process and its dependencies.
type SystemHandler struct {
	checks    map[string]HealthCheck
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a SystemHandler probing the named checks.
func NewSystemHandler(checks map[string]HealthCheck, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		checks:    checks,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthReport struct {
	Status     string            `json:"status"`
	Uptime     string            `json:"uptime"`
	Checks     map[string]string `json:"checks"`
	Goroutines int               `json:"goroutines"`
	HeapAlloc  uint64            `json:"heap_alloc_bytes"`
	NumGC      uint32            `json:"num_gc"`
}

// Health godoc
// GET /health
// Returns 200 when every dependency answers, 503 otherwise.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	report := healthReport{
		Status: "ok",
		Uptime: formatDuration(time.Since(h.startTime)),
		Checks: make(map[string]string, len(names)),
	}
	failed := make(map[string]string)
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", name).Msg("health check failed")
			report.Checks[name] = "down"
			failed[name] = err.Error()
			continue
		}
		report.Checks[name] = "up"
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	report.Goroutines = runtime.NumGoroutine()
	report.HeapAlloc = ms.HeapAlloc
	report.NumGC = ms.NumGC

	if len(failed) > 0 {
		response.FailWithFields(c, http.StatusServiceUnavailable, response.ErrServiceUnavailable, failed)
		return
	}
	response.Success(c, http.StatusOK, report)
}

// ---------- Helpers ----------

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
