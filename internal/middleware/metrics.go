package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics builds the shared fiberprometheus collector. Repeated calls return
// the first instance since the collectors live in the default registry.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request counts and latencies.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}

// RegisterMetricsEndpoint exposes the Prometheus scrape endpoint on app.
func RegisterMetricsEndpoint(app *fiber.App, p *fiberprometheus.FiberPrometheus) {
	p.RegisterAt(app, "/metrics")
}
