package gateway

import (
	"context"
	"net/http"
	"sync"
	"time"

	"hospital-management/config"
	"hospital-management/pkg/response"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const probeTimeout = 3 * time.Second

const (
	StatusUp           = "up"
	StatusDown         = "down"
	StatusUnconfigured = "unconfigured"
)

type HealthReport struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Healthy is true when every configured service answered its health check.
// Services without a URL are reported but do not count.
func (r HealthReport) Healthy() bool {
	return !lo.Contains(lo.Values(r.Services), StatusDown)
}

// Probe calls GET /api/health on every configured service concurrently.
func (g *Gateway) Probe(ctx context.Context) HealthReport {
	report := HealthReport{Services: make(map[string]string, len(config.ServiceNames))}
	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	for _, name := range config.ServiceNames {
		target, ok := g.targets[name]
		if !ok {
			report.Services[name] = StatusUnconfigured
			continue
		}

		name, base := name, target.String()
		group.Go(func() error {
			status := StatusDown
			resp, err := g.prober.R().SetContext(ctx).Get(base + "/api/health")
			if err == nil && resp.StatusCode() == http.StatusOK {
				status = StatusUp
			} else if err != nil {
				g.log.Warnf("Health probe of %s failed: %v", name, err)
			}

			mu.Lock()
			report.Services[name] = status
			mu.Unlock()
			return nil
		})
	}
	group.Wait()

	report.Status = "ok"
	if !report.Healthy() {
		report.Status = "degraded"
	}
	return report
}

func (g *Gateway) health(w http.ResponseWriter, r *http.Request) {
	report := g.Probe(r.Context())
	if !report.Healthy() {
		response.Error(w, http.StatusServiceUnavailable, "One or more services are down", report)
		return
	}
	response.Success(w, http.StatusOK, "Gateway is healthy", report)
}
