package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/intelliview/intelliview-api/internal/http/response"
)

// Health durumları.
const (
	StatusHealthy   = "Healthy"
	StatusUnhealthy = "Unhealthy"
)

// HealthCheck, tek bir bağımlılığın kontrolüdür.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// DependencyRecorder, kontrol sonuçlarını kaydeder. *metrics.Metrics bu
// arayüzü sağlar.
type DependencyRecorder interface {
	SetDependency(name string, up bool)
}

// CheckResult, bir kontrolün sonucudur.
type CheckResult struct {
	Status   string  `json:"status"`
	Error    string  `json:"error,omitempty"`
	Duration float64 `json:"durationMs"`
}

// HealthReport, /api/health yanıtının gövdesidir.
type HealthReport struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks"`
}

// HealthController handles GET /api/health.
type HealthController struct {
	checks   []HealthCheck
	recorder DependencyRecorder
	version  string
	timeout  time.Duration
}

// NewHealthController, kontrolleri sırayla çalıştıran controller oluşturur.
// recorder nil olabilir.
func NewHealthController(checks []HealthCheck, recorder DependencyRecorder, version string) *HealthController {
	return &HealthController{
		checks:   checks,
		recorder: recorder,
		version:  version,
		timeout:  2 * time.Second,
	}
}

// Check, tüm bağımlılıklar sağlıklıysa 200, değilse 503 döner.
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	report := c.Run(r.Context())

	if report.Status != StatusHealthy {
		_ = response.Send(w, http.StatusServiceUnavailable, response.JSONResponse{
			Success: false,
			Data:    report,
			Error:   "One or more dependencies are unavailable",
		})
		return
	}

	_ = response.Success(w, http.StatusOK, report, nil)
}

// Run, kontrolleri çalıştırır ve raporu döndürür.
func (c *HealthController) Run(ctx context.Context) HealthReport {
	report := HealthReport{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult, len(c.checks)),
	}

	for _, check := range c.checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		start := time.Now()
		err := check.Check(checkCtx)
		cancel()

		result := CheckResult{
			Status:   StatusHealthy,
			Duration: float64(time.Since(start).Microseconds()) / 1000,
		}
		if err != nil {
			result.Status = StatusUnhealthy
			result.Error = err.Error()
			report.Status = StatusUnhealthy
		}
		report.Checks[check.Name] = result

		if c.recorder != nil {
			c.recorder.SetDependency(check.Name, err == nil)
		}
	}

	return report
}
