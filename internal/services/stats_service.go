package services

import (
	"context"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/metrics"
	"skyrelief/dispatch/internal/models/dtos"
)

// StatsService builds the fleet overview from raw aggregate queries.
type StatsService struct {
	stats   *repositories.StatsRepository
	cache   common.CacheInterface
	ttl     time.Duration
	metrics *metrics.MetricsRegistry
}

func NewStatsService(stats *repositories.StatsRepository, cache common.CacheInterface, ttl time.Duration, reg *metrics.MetricsRegistry) *StatsService {
	return &StatsService{stats: stats, cache: cache, ttl: ttl, metrics: reg}
}

func (s *StatsService) Fleet(ctx context.Context) (*dtos.FleetStats, error) {
	if s.cache == nil || s.ttl <= 0 {
		return s.compute(ctx)
	}

	stats, err := common.GetOrLoad(s.cache, s.metrics, "stats", string(constants.CachePrefixStats), s.ttl,
		func() (*dtos.FleetStats, error) { return s.compute(ctx) })
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *StatsService) compute(ctx context.Context) (*dtos.FleetStats, error) {
	missions, err := s.stats.MissionsByStatus(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	drones, err := s.stats.DronesByStatus(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	zones, err := s.stats.ZonesByRiskLevel(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	distance, err := s.stats.CompletedDistance(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	// Report every known status, including empty ones.
	for _, st := range constants.MissionStatuses {
		if _, ok := missions[string(st)]; !ok {
			missions[string(st)] = 0
		}
	}
	for _, st := range constants.DroneStatuses {
		if _, ok := drones[string(st)]; !ok {
			drones[string(st)] = 0
		}
	}

	return &dtos.FleetStats{
		MissionsByStatus:    missions,
		DronesByStatus:      drones,
		ZonesByRiskLevel:    zones,
		CompletedMissions:   distance.Missions,
		CompletedDistanceKm: distance.TotalKm,
		AverageDistanceKm:   distance.AverageKm,
		GeneratedAt:         time.Now().UTC(),
	}, nil
}
