package api

import (
	"context"

	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/models/dtos"
	gormModels "skyrelief/dispatch/internal/models/gorm"
)

// Handlers depend on these rather than on the concrete services so they
// can be tested with mocks.

type MissionService interface {
	Create(ctx context.Context, req dtos.CreateMissionRequest) (*gormModels.Mission, error)
	Get(ctx context.Context, id uint) (*gormModels.Mission, error)
	List(ctx context.Context, f repositories.MissionFilter) ([]gormModels.Mission, error)
	Update(ctx context.Context, id uint, req dtos.UpdateMissionRequest) (*gormModels.Mission, error)
	Delete(ctx context.Context, id uint) error
	History(ctx context.Context, id uint, page repositories.Page) ([]gormModels.MissionHistoryRecord, error)
}

type DroneService interface {
	Create(ctx context.Context, req dtos.CreateDroneRequest) (*gormModels.Drone, error)
	Get(ctx context.Context, id uint) (*gormModels.Drone, error)
	List(ctx context.Context, f repositories.DroneFilter) ([]gormModels.Drone, error)
	Available(ctx context.Context, page repositories.Page) ([]gormModels.Drone, error)
	Update(ctx context.Context, id uint, req dtos.UpdateDroneRequest) (*gormModels.Drone, error)
	Delete(ctx context.Context, id uint) error
	History(ctx context.Context, id uint, page repositories.Page) ([]gormModels.MissionHistoryRecord, error)
}

type ZoneService interface {
	Create(ctx context.Context, req dtos.CreateZoneRequest) (*gormModels.FlightZone, error)
	Get(ctx context.Context, id uint) (*gormModels.FlightZone, error)
	List(ctx context.Context, f repositories.ZoneFilter) ([]gormModels.FlightZone, error)
	ByRiskLevel(ctx context.Context, level int, page repositories.Page) ([]gormModels.FlightZone, error)
	Update(ctx context.Context, id uint, req dtos.UpdateZoneRequest) (*gormModels.FlightZone, error)
	Delete(ctx context.Context, id uint) error
}

type HistoryService interface {
	Create(ctx context.Context, req dtos.CreateHistoryRequest) (*gormModels.MissionHistoryRecord, error)
	Get(ctx context.Context, id uint) (*gormModels.MissionHistoryRecord, error)
	List(ctx context.Context, f repositories.HistoryFilter) ([]gormModels.MissionHistoryRecord, error)
	ByMission(ctx context.Context, missionID uint, page repositories.Page) ([]gormModels.MissionHistoryRecord, error)
	ByDrone(ctx context.Context, droneID uint, page repositories.Page) ([]gormModels.MissionHistoryRecord, error)
	Update(ctx context.Context, id uint, req dtos.UpdateHistoryRequest) (*gormModels.MissionHistoryRecord, error)
	Delete(ctx context.Context, id uint) error
}

type StatsService interface {
	Fleet(ctx context.Context) (*dtos.FleetStats, error)
}
