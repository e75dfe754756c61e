package repositories

import (
	"context"
	"fmt"

	"skyrelief/dispatch/internal/constants"

	"github.com/jmoiron/sqlx"
)

type labelCount struct {
	Label string `db:"label"`
	Total int64  `db:"total"`
}

type levelCount struct {
	Level int   `db:"level"`
	Total int64 `db:"total"`
}

// DistanceSummary aggregates distance over a set of missions.
type DistanceSummary struct {
	Missions  int64   `db:"missions"`
	TotalKm   float64 `db:"total_km"`
	AverageKm float64 `db:"average_km"`
}

// StatsRepository runs the read-only aggregate queries behind /stats.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db}
}

func (r *StatsRepository) MissionsByStatus(ctx context.Context) (map[string]int64, error) {
	return r.labelCounts(ctx, constants.CountMissionsByStatus)
}

func (r *StatsRepository) DronesByStatus(ctx context.Context) (map[string]int64, error) {
	return r.labelCounts(ctx, constants.CountDronesByStatus)
}

func (r *StatsRepository) ZonesByRiskLevel(ctx context.Context) (map[int]int64, error) {
	var rows []levelCount
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(constants.CountZonesByRisk)); err != nil {
		return nil, fmt.Errorf("failed to count zones: %w", err)
	}

	out := make(map[int]int64, len(rows))
	for _, row := range rows {
		out[row.Level] = row.Total
	}
	return out, nil
}

// CompletedDistance sums the distance of completed missions.
func (r *StatsRepository) CompletedDistance(ctx context.Context) (DistanceSummary, error) {
	var s DistanceSummary
	err := r.db.GetContext(ctx, &s, r.db.Rebind(constants.CompletedDistanceSummary), string(constants.MissionCompleted))
	if err != nil {
		return DistanceSummary{}, fmt.Errorf("failed to summarise distances: %w", err)
	}
	return s, nil
}

func (r *StatsRepository) labelCounts(ctx context.Context, query string) (map[string]int64, error) {
	var rows []labelCount
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query)); err != nil {
		return nil, fmt.Errorf("failed to run count query: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Label] = row.Total
	}
	return out, nil
}

func (r *StatsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
