package services

import (
	"context"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/logging"
	"skyrelief/dispatch/internal/metrics"
	"skyrelief/dispatch/internal/models/dtos"
	gormModels "skyrelief/dispatch/internal/models/gorm"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DroneService struct {
	db       *gorm.DB
	drones   *repositories.DroneRepository
	cache    common.CacheInterface
	cacheTTL time.Duration
	metrics  *metrics.MetricsRegistry
}

func NewDroneService(db *gorm.DB, cache common.CacheInterface, cacheTTL time.Duration, reg *metrics.MetricsRegistry) *DroneService {
	return &DroneService{
		db:       db,
		drones:   repositories.NewDroneRepository(db),
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  reg,
	}
}

func (s *DroneService) Create(ctx context.Context, req dtos.CreateDroneRequest) (*gormModels.Drone, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	status := constants.DroneAvailable
	if req.Status != nil {
		status = *req.Status
	}
	if status == constants.DroneOnMission {
		return nil, newError(KindInvalidStateTransition, "on-mission is set by starting a mission")
	}

	d := &gormModels.Drone{
		Name:            req.Name,
		MaxPayloadKg:    req.MaxPayloadKg,
		MaxRangeKm:      req.MaxRangeKm,
		MaxSpeedKmh:     req.MaxSpeedKmh,
		SafetyRating:    req.SafetyRating,
		AuthorizedZones: datatypes.JSONSlice[string](req.AuthorizedZones),
		Status:          status,
	}

	if err := s.drones.Create(ctx, d); err != nil {
		return nil, storageError(err)
	}
	s.invalidate(d.ID)

	logging.Info("Drone registered", "drone_id", d.ID, "name", d.Name)
	return d, nil
}

// Get serves single-drone reads from the cache when possible.
func (s *DroneService) Get(ctx context.Context, id uint) (*gormModels.Drone, error) {
	load := func() (gormModels.Drone, error) {
		d, err := s.drones.GetByID(ctx, id)
		if err != nil {
			return gormModels.Drone{}, storageError(err)
		}
		if d == nil {
			return gormModels.Drone{}, notFound("drone", id)
		}
		return *d, nil
	}

	if s.cache == nil {
		d, err := load()
		if err != nil {
			return nil, err
		}
		return &d, nil
	}

	d, err := common.GetOrLoad(s.cache, s.metrics, "drone", common.DroneCacheKey(id), s.cacheTTL, load)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DroneService) List(ctx context.Context, f repositories.DroneFilter) ([]gormModels.Drone, error) {
	drones, err := s.drones.List(ctx, f)
	return drones, storageError(err)
}

// Available lists drones that can be dispatched right now.
func (s *DroneService) Available(ctx context.Context, page repositories.Page) ([]gormModels.Drone, error) {
	status := constants.DroneAvailable
	return s.List(ctx, repositories.DroneFilter{Status: &status, Page: page})
}

// History lists the history records of an existing drone.
func (s *DroneService) History(ctx context.Context, id uint, page repositories.Page) ([]gormModels.MissionHistoryRecord, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	records, err := repositories.NewHistoryRepository(s.db).List(ctx, repositories.HistoryFilter{DroneID: &id, Page: page})
	return records, storageError(err)
}

// Update changes drone attributes. The on-mission status belongs to the
// mission workflow: it cannot be set here, and a drone flying an
// in-progress mission cannot change status at all.
func (s *DroneService) Update(ctx context.Context, id uint, req dtos.UpdateDroneRequest) (*gormModels.Drone, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated *gormModels.Drone

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		drones := s.drones.WithTx(tx)

		d, err := drones.GetByID(ctx, id)
		if err != nil {
			return storageError(err)
		}
		if d == nil {
			return notFound("drone", id)
		}

		fields := map[string]any{}
		if req.Name != nil {
			fields["name"] = *req.Name
		}
		if req.MaxPayloadKg != nil {
			fields["max_payload_kg"] = *req.MaxPayloadKg
		}
		if req.MaxRangeKm != nil {
			fields["max_range_km"] = *req.MaxRangeKm
		}
		if req.MaxSpeedKmh != nil {
			fields["max_speed_kmh"] = *req.MaxSpeedKmh
		}
		if req.SafetyRating != nil {
			fields["safety_rating"] = *req.SafetyRating
		}
		if req.AuthorizedZones != nil {
			fields["authorized_zones"] = datatypes.JSONSlice[string](*req.AuthorizedZones)
		}

		if req.Status != nil && *req.Status != d.Status {
			if *req.Status == constants.DroneOnMission {
				return newError(KindInvalidStateTransition, "on-mission is set by starting a mission")
			}

			flying, err := repositories.NewMissionRepository(tx).CountInProgressByDrone(ctx, id)
			if err != nil {
				return storageError(err)
			}
			if flying > 0 {
				return newError(KindInvalidStateTransition, "drone %d is flying an in-progress mission", id)
			}

			fields["status"] = *req.Status
		}

		if len(fields) > 0 {
			if err := drones.Update(ctx, id, fields); err != nil {
				return storageError(err)
			}
		}

		updated, err = drones.GetByID(ctx, id)
		return storageError(err)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(id)
	return updated, nil
}

// Delete removes a drone that no mission or history record references.
func (s *DroneService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		drones := s.drones.WithTx(tx)

		d, err := drones.GetByID(ctx, id)
		if err != nil {
			return storageError(err)
		}
		if d == nil {
			return notFound("drone", id)
		}

		missions, err := repositories.NewMissionRepository(tx).CountByDrone(ctx, id)
		if err != nil {
			return storageError(err)
		}
		records, err := repositories.NewHistoryRepository(tx).CountByDrone(ctx, id)
		if err != nil {
			return storageError(err)
		}
		if missions > 0 || records > 0 {
			return newError(KindReferentialConstraint,
				"drone %d is referenced by %d missions and %d history records", id, missions, records)
		}

		return storageError(drones.Delete(ctx, id))
	})
	if err != nil {
		return err
	}

	s.invalidate(id)
	return nil
}

func (s *DroneService) invalidate(id uint) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(common.DroneCacheKey(id))
	s.cache.Delete(string(constants.CachePrefixStats))
}
