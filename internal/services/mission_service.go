package services

import (
	"context"
	"errors"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/geo"
	"skyrelief/dispatch/internal/logging"
	"skyrelief/dispatch/internal/metrics"
	"skyrelief/dispatch/internal/models/dtos"
	gormModels "skyrelief/dispatch/internal/models/gorm"

	"gorm.io/gorm"
)

type MissionService struct {
	db       *gorm.DB
	missions *repositories.MissionRepository
	cache    common.CacheInterface
	events   common.EventQueue
	metrics  *metrics.MetricsRegistry
}

// NewMissionService wires the mission workflow. cache, events and reg may
// be nil.
func NewMissionService(db *gorm.DB, cache common.CacheInterface, events common.EventQueue, reg *metrics.MetricsRegistry) *MissionService {
	return &MissionService{
		db:       db,
		missions: repositories.NewMissionRepository(db),
		cache:    cache,
		events:   events,
		metrics:  reg,
	}
}

// Create validates and stores a new pending mission. The distance is
// computed here from the coordinates and never changes afterwards.
func (s *MissionService) Create(ctx context.Context, req dtos.CreateMissionRequest) (*gormModels.Mission, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	m := &gormModels.Mission{
		CargoWeightKg: req.CargoWeightKg,
		CargoCategory: req.CargoCategory,
		RiskLevel:     req.RiskLevel,
		Description:   req.Description,
		RecipientName: req.RecipientName,
		ContactPhone:  req.ContactPhone,
		DepartureLat:  *req.DepartureLat,
		DepartureLon:  *req.DepartureLon,
		ArrivalLat:    *req.ArrivalLat,
		ArrivalLon:    *req.ArrivalLon,
		Status:        constants.MissionPending,
		Version:       1,
	}
	m.DistanceKm = geo.Distance(
		geo.Point{Lat: m.DepartureLat, Lon: m.DepartureLon},
		geo.Point{Lat: m.ArrivalLat, Lon: m.ArrivalLon},
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.DroneID != nil {
			drone, err := s.assignableDrone(ctx, tx, *req.DroneID, m)
			if err != nil {
				return err
			}
			m.DroneID = &drone.ID
			m.Drone = drone
		}

		if req.ZoneID != nil {
			if err := zoneExists(ctx, tx, *req.ZoneID); err != nil {
				return err
			}
			m.ZoneID = req.ZoneID
		}

		return storageError(s.missions.WithTx(tx).Create(ctx, m))
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.MissionsCreatedTotal.WithLabelValues(string(m.CargoCategory)).Inc()
		s.metrics.MissionDistanceKm.Observe(m.DistanceKm)
	}
	s.invalidateStats()

	logging.Info("Mission created", "mission_id", m.ID, "distance_km", m.DistanceKm)
	return m, nil
}

func (s *MissionService) Get(ctx context.Context, id uint) (*gormModels.Mission, error) {
	m, err := s.missions.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	if m == nil {
		return nil, notFound("mission", id)
	}
	return m, nil
}

func (s *MissionService) List(ctx context.Context, f repositories.MissionFilter) ([]gormModels.Mission, error) {
	missions, err := s.missions.List(ctx, f)
	return missions, storageError(err)
}

// History lists the history records of an existing mission.
func (s *MissionService) History(ctx context.Context, id uint, page repositories.Page) ([]gormModels.MissionHistoryRecord, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	records, err := repositories.NewHistoryRepository(s.db).List(ctx, repositories.HistoryFilter{MissionID: &id, Page: page})
	return records, storageError(err)
}

// Update applies a partial update under the optimistic version guard.
// Status changes follow the mission state machine and move the assigned
// drone between available and on-mission in the same transaction.
func (s *MissionService) Update(ctx context.Context, id uint, req dtos.UpdateMissionRequest) (*gormModels.Mission, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var (
		updated *gormModels.Mission
		event   *common.MissionEvent
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		missions := s.missions.WithTx(tx)

		m, err := missions.GetByID(ctx, id)
		if err != nil {
			return storageError(err)
		}
		if m == nil {
			return notFound("mission", id)
		}

		if req.Version != nil && *req.Version != m.Version {
			return newError(KindVersionConflict, "mission %d is at version %d, not %d", id, m.Version, *req.Version)
		}

		fields := map[string]any{}
		droneID := m.DroneID

		if req.DroneID != nil && !sameRef(m.DroneID, *req.DroneID) {
			if m.Status != constants.MissionPending {
				return newError(KindInvalidStateTransition, "drone can only be changed while the mission is pending")
			}
			if *req.DroneID == 0 {
				droneID = nil
				fields["drone_id"] = nil
			} else {
				drone, err := s.assignableDrone(ctx, tx, *req.DroneID, m)
				if err != nil {
					return err
				}
				droneID = &drone.ID
				fields["drone_id"] = drone.ID
			}
		}

		if req.ZoneID != nil && !sameRef(m.ZoneID, *req.ZoneID) {
			if m.Status != constants.MissionPending {
				return newError(KindInvalidStateTransition, "zone can only be changed while the mission is pending")
			}
			if *req.ZoneID == 0 {
				fields["zone_id"] = nil
			} else {
				if err := zoneExists(ctx, tx, *req.ZoneID); err != nil {
					return err
				}
				fields["zone_id"] = *req.ZoneID
			}
		}

		startedAt, endedAt := m.StartedAt, m.EndedAt
		if req.StartedAt != nil {
			startedAt = req.StartedAt
		}
		if req.EndedAt != nil {
			endedAt = req.EndedAt
		}

		target := m.Status
		if req.Status != nil {
			target = *req.Status
		}

		if target != m.Status {
			if err := CheckTransition(m.Status, target, droneID != nil); err != nil {
				return err
			}

			now := time.Now().UTC()
			if err := s.applyDroneSideEffects(ctx, tx, m, target, droneID); err != nil {
				return err
			}

			switch {
			case target == constants.MissionInProgress && startedAt == nil:
				startedAt = &now
			case target.Terminal() && endedAt == nil:
				endedAt = &now
			}

			occurred := now
			if target.Terminal() && endedAt != nil {
				occurred = *endedAt
			}

			fields["status"] = target
			event = &common.MissionEvent{
				MissionID:  m.ID,
				DroneID:    droneID,
				From:       m.Status,
				To:         target,
				OccurredAt: occurred,
			}
		}

		if err := checkTimestamps(m.CreatedAt, startedAt, endedAt); err != nil {
			return err
		}
		if !sameTime(m.StartedAt, startedAt) {
			fields["started_at"] = startedAt
		}
		if !sameTime(m.EndedAt, endedAt) {
			fields["ended_at"] = endedAt
		}

		if len(fields) > 0 {
			err := missions.UpdateVersioned(ctx, m.ID, m.Version, fields)
			if errors.Is(err, repositories.ErrStaleVersion) {
				return newError(KindVersionConflict, "mission %d was modified concurrently", id)
			}
			if err != nil {
				return storageError(err)
			}
		}

		updated, err = missions.GetByID(ctx, id)
		return storageError(err)
	})
	if err != nil {
		return nil, err
	}

	if event != nil {
		s.afterTransition(ctx, *event)
	}
	s.invalidateStats()

	return updated, nil
}

// Delete removes a mission that has no history and is not in flight.
func (s *MissionService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		missions := s.missions.WithTx(tx)

		m, err := missions.GetByID(ctx, id)
		if err != nil {
			return storageError(err)
		}
		if m == nil {
			return notFound("mission", id)
		}

		if m.Status == constants.MissionInProgress {
			return newError(KindInvalidStateTransition, "mission %d is in progress; finish or cancel it first", id)
		}

		n, err := repositories.NewHistoryRepository(tx).CountByMission(ctx, id)
		if err != nil {
			return storageError(err)
		}
		if n > 0 {
			return newError(KindReferentialConstraint, "mission %d has %d history records", id, n)
		}

		return storageError(missions.Delete(ctx, id))
	})
	if err != nil {
		return err
	}

	s.invalidateStats()
	return nil
}

// assignableDrone loads a drone and checks it can carry the mission.
func (s *MissionService) assignableDrone(ctx context.Context, tx *gorm.DB, droneID uint, m *gormModels.Mission) (*gormModels.Drone, error) {
	drone, err := repositories.NewDroneRepository(tx).GetByID(ctx, droneID)
	if err != nil {
		return nil, storageError(err)
	}
	if drone == nil {
		return nil, referenceNotFound("drone", droneID)
	}
	if err := checkCapacity(drone, m); err != nil {
		return nil, err
	}
	return drone, nil
}

func checkCapacity(drone *gormModels.Drone, m *gormModels.Mission) error {
	if m.CargoWeightKg > drone.MaxPayloadKg {
		return newError(KindValidation, "cargo weight %.2f kg exceeds drone %d payload of %.2f kg",
			m.CargoWeightKg, drone.ID, drone.MaxPayloadKg)
	}
	if m.DistanceKm > drone.MaxRangeKm {
		return newError(KindValidation, "mission distance %.2f km exceeds drone %d range of %.2f km",
			m.DistanceKm, drone.ID, drone.MaxRangeKm)
	}
	return nil
}

// applyDroneSideEffects moves the drone along with the mission. Capacity is
// checked again on start because the drone may have been edited after
// assignment.
func (s *MissionService) applyDroneSideEffects(ctx context.Context, tx *gorm.DB, m *gormModels.Mission, to constants.MissionStatus, droneID *uint) error {
	if droneID == nil {
		return nil
	}
	drones := repositories.NewDroneRepository(tx)
	from := m.Status

	switch {
	case to == constants.MissionInProgress:
		drone, err := drones.GetByID(ctx, *droneID)
		if err != nil {
			return storageError(err)
		}
		if drone == nil {
			return referenceNotFound("drone", *droneID)
		}
		if err := checkCapacity(drone, m); err != nil {
			return err
		}

		ok, err := drones.SwapStatus(ctx, *droneID, constants.DroneAvailable, constants.DroneOnMission)
		if err != nil {
			return storageError(err)
		}
		if !ok {
			return newError(KindInvalidStateTransition, "drone %d is not available", *droneID)
		}

	case from == constants.MissionInProgress && to.Terminal():
		if _, err := drones.SwapStatus(ctx, *droneID, constants.DroneOnMission, constants.DroneAvailable); err != nil {
			return storageError(err)
		}
	}
	return nil
}

func (s *MissionService) afterTransition(ctx context.Context, ev common.MissionEvent) {
	if s.metrics != nil {
		s.metrics.MissionTransitionsTotal.WithLabelValues(string(ev.From), string(ev.To)).Inc()
	}

	if s.cache != nil && ev.DroneID != nil {
		s.cache.Delete(common.DroneCacheKey(*ev.DroneID))
	}

	logging.Info("Mission status changed", "mission_id", ev.MissionID, "from", ev.From, "to", ev.To)

	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		logging.Warn("Failed to publish mission event", "mission_id", ev.MissionID, "error", err)
		if s.metrics != nil {
			s.metrics.MissionEventsDropped.Inc()
		}
	}
}

func (s *MissionService) invalidateStats() {
	if s.cache != nil {
		s.cache.Delete(string(constants.CachePrefixStats))
	}
}

func zoneExists(ctx context.Context, tx *gorm.DB, zoneID uint) error {
	zone, err := repositories.NewZoneRepository(tx).GetByID(ctx, zoneID)
	if err != nil {
		return storageError(err)
	}
	if zone == nil {
		return referenceNotFound("zone", zoneID)
	}
	return nil
}

func checkTimestamps(createdAt time.Time, startedAt, endedAt *time.Time) error {
	if startedAt != nil && startedAt.Before(createdAt) {
		return newError(KindValidation, "started_at cannot precede created_at")
	}
	if endedAt != nil {
		if endedAt.Before(createdAt) {
			return newError(KindValidation, "ended_at cannot precede created_at")
		}
		if startedAt != nil && endedAt.Before(*startedAt) {
			return newError(KindValidation, "ended_at cannot precede started_at")
		}
	}
	return nil
}

// sameRef compares a stored nullable reference with a requested id, where
// 0 means no reference.
func sameRef(current *uint, requested uint) bool {
	if current == nil {
		return requested == 0
	}
	return *current == requested
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
