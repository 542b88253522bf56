// Package health reports whether the storefront's dependencies are reachable.
package health

import (
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/teagram/internal/config"
	"github.com/hellofresh/health-go/v5"
	healthHttp "github.com/hellofresh/health-go/v5/checks/http"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const probePath = "/catalog/categories"

// UsesRedis reports whether any configured backend lives in Redis.
func UsesRedis(cfg *config.Config) bool {
	return cfg.Storage.Backend == "redis" || cfg.Cache.Backend == "redis"
}

// NewHealthHandler checks the backend API, and Redis when storage or cache
// use it.
func NewHealthHandler(cfg *config.Config, version string) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "backend-api",
			Timeout:   5 * time.Second,
			SkipOnErr: false,
			Check: healthHttp.New(healthHttp.Config{
				URL:            cfg.API.BaseURL + probePath,
				RequestTimeout: 5 * time.Second,
			}),
		},
	}

	if UsesRedis(cfg) {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "teagram",
			Version: version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
