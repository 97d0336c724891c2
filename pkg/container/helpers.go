// -----------------------------------------------------------------------------
// Container Helper Functions
// -----------------------------------------------------------------------------
// This file provides convenient helper functions to reduce boilerplate code
// when retrieving common dependencies from the DI container.
//
// They replace calls like:
//   container.MustResolve[*config.Config](c)
//
// with:
//   container.GetConfig(c)
// -----------------------------------------------------------------------------

package container

import (
	"github.com/sirupsen/logrus"

	"github.com/intelliview/intelliview-api/internal/config"
	"github.com/intelliview/intelliview-api/internal/metrics"
	"github.com/intelliview/intelliview-api/internal/telemetry"
)

// GetConfig retrieves the application config from the container.
func GetConfig(c *Container) *config.Config {
	return MustResolve[*config.Config](c)
}

// GetLogger retrieves the logger from the container.
func GetLogger(c *Container) *logrus.Logger {
	return MustResolve[*logrus.Logger](c)
}

// GetMetrics retrieves the Prometheus metrics set.
func GetMetrics(c *Container) *metrics.Metrics {
	return MustResolve[*metrics.Metrics](c)
}

// GetTelemetry retrieves the tracing setup.
func GetTelemetry(c *Container) *telemetry.Telemetry {
	return MustResolve[*telemetry.Telemetry](c)
}
