package api

import (
	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/config"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/metrics"
	"skyrelief/dispatch/internal/services"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type Services struct {
	Missions *services.MissionService
	Drones   *services.DroneService
	Zones    *services.ZoneService
	History  *services.HistoryService
	Stats    *services.StatsService
}

type Dependencies struct {
	Services *Services
	Cache    common.CacheInterface
	Events   common.EventQueue
	Metrics  *metrics.MetricsRegistry

	// Probes are checked by /health.
	Probes map[string]Pinger
}

// InitDependencies wires the services on top of already opened stores.
func InitDependencies(
	cfg *config.Config,
	orm *gorm.DB,
	sqlDB *sqlx.DB,
	cache common.CacheInterface,
	events common.EventQueue,
	reg *metrics.MetricsRegistry,
) *Dependencies {
	statsRepo := repositories.NewStatsRepository(sqlDB)

	svcs := &Services{
		Missions: services.NewMissionService(orm, cache, events, reg),
		Drones:   services.NewDroneService(orm, cache, cfg.Cache.TTL, reg),
		Zones:    services.NewZoneService(orm, cache, cfg.Cache.TTL, reg),
		History:  services.NewHistoryService(orm),
		Stats:    services.NewStatsService(statsRepo, cache, cfg.Cache.StatsTTL, reg),
	}

	return &Dependencies{
		Services: svcs,
		Cache:    cache,
		Events:   events,
		Metrics:  reg,
		Probes: map[string]Pinger{
			"database": statsRepo,
			"cache":    cache,
		},
	}
}
