package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "skyrelief/dispatch/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistoryFilter struct {
	MissionID *uint
	DroneID   *uint
	Page
}

// HistoryRepository handles mission_history table operations using GORM
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) WithTx(tx *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: tx}
}

func (r *HistoryRepository) Create(ctx context.Context, h *gormModels.MissionHistoryRecord) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(h).Error; err != nil {
		return fmt.Errorf("failed to create history record: %w", err)
	}
	return nil
}

// GetByID returns nil, nil when the record does not exist.
func (r *HistoryRepository) GetByID(ctx context.Context, id uint) (*gormModels.MissionHistoryRecord, error) {
	var h gormModels.MissionHistoryRecord

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch history record: %w", err)
	}

	return &h, nil
}

// List returns records ordered by recording time, oldest first.
func (r *HistoryRepository) List(ctx context.Context, f HistoryFilter) ([]gormModels.MissionHistoryRecord, error) {
	q := r.db.WithContext(ctx).Model(&gormModels.MissionHistoryRecord{})
	if f.MissionID != nil {
		q = q.Where("mission_id = ?", *f.MissionID)
	}
	if f.DroneID != nil {
		q = q.Where("drone_id = ?", *f.DroneID)
	}

	var records []gormModels.MissionHistoryRecord
	err := paginate(q.Order("recorded_at ASC").Order("id ASC"), f.Page).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list history records: %w", err)
	}

	return records, nil
}

func (r *HistoryRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.MissionHistoryRecord{}).
		Where("id = ?", id).
		Updates(fields)

	if result.Error != nil {
		return fmt.Errorf("failed to update history record: %w", result.Error)
	}
	return nil
}

func (r *HistoryRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&gormModels.MissionHistoryRecord{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete history record: %w", err)
	}
	return nil
}

func (r *HistoryRepository) CountByMission(ctx context.Context, missionID uint) (int64, error) {
	return r.count(ctx, "mission_id = ?", missionID)
}

func (r *HistoryRepository) CountByDrone(ctx context.Context, droneID uint) (int64, error) {
	return r.count(ctx, "drone_id = ?", droneID)
}

func (r *HistoryRepository) count(ctx context.Context, where string, args ...any) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.MissionHistoryRecord{}).
		Where(where, args...).
		Count(&n).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count history records: %w", err)
	}
	return n, nil
}
