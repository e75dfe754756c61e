package services

import (
	"context"
	"fmt"
	"time"

	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/models/dtos"
	gormModels "skyrelief/dispatch/internal/models/gorm"

	"gorm.io/gorm"
)

type HistoryService struct {
	db      *gorm.DB
	history *repositories.HistoryRepository
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{
		db:      db,
		history: repositories.NewHistoryRepository(db),
	}
}

func (s *HistoryService) Create(ctx context.Context, req dtos.CreateHistoryRequest) (*gormModels.MissionHistoryRecord, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	h := &gormModels.MissionHistoryRecord{
		MissionID:   req.MissionID,
		DroneID:     req.DroneID,
		RecordedAt:  recordedAt,
		Performance: req.Performance,
		Comments:    req.Comments,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.insert(ctx, tx, h)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// RecordOutcome appends the automatic record for a mission that left
// in-progress with the given terminal status.
func (s *HistoryService) RecordOutcome(ctx context.Context, missionID, droneID uint, status constants.MissionStatus, at time.Time) (*gormModels.MissionHistoryRecord, error) {
	h := &gormModels.MissionHistoryRecord{
		MissionID:   missionID,
		DroneID:     droneID,
		RecordedAt:  at,
		Performance: string(status),
		Comments:    fmt.Sprintf("Mission %d %s by drone %d", missionID, outcomeVerb(status), droneID),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.insert(ctx, tx, h)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *HistoryService) insert(ctx context.Context, tx *gorm.DB, h *gormModels.MissionHistoryRecord) error {
	mission, err := repositories.NewMissionRepository(tx).GetByID(ctx, h.MissionID)
	if err != nil {
		return storageError(err)
	}
	if mission == nil {
		return referenceNotFound("mission", h.MissionID)
	}

	drone, err := repositories.NewDroneRepository(tx).GetByID(ctx, h.DroneID)
	if err != nil {
		return storageError(err)
	}
	if drone == nil {
		return referenceNotFound("drone", h.DroneID)
	}

	return storageError(s.history.WithTx(tx).Create(ctx, h))
}

func (s *HistoryService) Get(ctx context.Context, id uint) (*gormModels.MissionHistoryRecord, error) {
	h, err := s.history.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	if h == nil {
		return nil, notFound("history record", id)
	}
	return h, nil
}

func (s *HistoryService) List(ctx context.Context, f repositories.HistoryFilter) ([]gormModels.MissionHistoryRecord, error) {
	records, err := s.history.List(ctx, f)
	return records, storageError(err)
}

func (s *HistoryService) ByMission(ctx context.Context, missionID uint, page repositories.Page) ([]gormModels.MissionHistoryRecord, error) {
	return s.List(ctx, repositories.HistoryFilter{MissionID: &missionID, Page: page})
}

func (s *HistoryService) ByDrone(ctx context.Context, droneID uint, page repositories.Page) ([]gormModels.MissionHistoryRecord, error) {
	return s.List(ctx, repositories.HistoryFilter{DroneID: &droneID, Page: page})
}

// Update edits the free-text fields of a record; its links and timestamp
// are fixed once written.
func (s *HistoryService) Update(ctx context.Context, id uint, req dtos.UpdateHistoryRequest) (*gormModels.MissionHistoryRecord, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Performance != nil {
		fields["performance"] = *req.Performance
	}
	if req.Comments != nil {
		fields["comments"] = *req.Comments
	}

	if len(fields) > 0 {
		if err := s.history.Update(ctx, id, fields); err != nil {
			return nil, storageError(err)
		}
	}

	return s.Get(ctx, id)
}

func (s *HistoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return storageError(s.history.Delete(ctx, id))
}

func outcomeVerb(status constants.MissionStatus) string {
	switch status {
	case constants.MissionCompleted:
		return "completed"
	case constants.MissionFailed:
		return "failed"
	case constants.MissionCancelled:
		return "cancelled in flight"
	default:
		return string(status)
	}
}
