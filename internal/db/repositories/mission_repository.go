package repositories

import (
	"context"
	"errors"
	"fmt"

	"skyrelief/dispatch/internal/constants"
	gormModels "skyrelief/dispatch/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MissionFilter narrows List. Nil fields are ignored.
type MissionFilter struct {
	Status    *constants.MissionStatus
	Category  *constants.CargoCategory
	RiskLevel *int
	DroneID   *uint
	ZoneID    *uint
	Page
}

// MissionRepository handles missions table operations using GORM
type MissionRepository struct {
	db *gorm.DB
}

func NewMissionRepository(db *gorm.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

// WithTx returns a copy bound to an open transaction.
func (r *MissionRepository) WithTx(tx *gorm.DB) *MissionRepository {
	return &MissionRepository{db: tx}
}

func (r *MissionRepository) Create(ctx context.Context, m *gormModels.Mission) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create mission: %w", err)
	}
	return nil
}

// GetByID retrieves a mission with its drone preloaded. It returns nil, nil
// when the mission does not exist.
func (r *MissionRepository) GetByID(ctx context.Context, id uint) (*gormModels.Mission, error) {
	var m gormModels.Mission

	err := r.db.WithContext(ctx).
		Preload("Drone").
		Where("id = ?", id).
		First(&m).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch mission: %w", err)
	}

	return &m, nil
}

func (r *MissionRepository) List(ctx context.Context, f MissionFilter) ([]gormModels.Mission, error) {
	q := r.db.WithContext(ctx).Model(&gormModels.Mission{}).Preload("Drone")

	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Category != nil {
		q = q.Where("cargo_category = ?", *f.Category)
	}
	if f.RiskLevel != nil {
		q = q.Where("risk_level = ?", *f.RiskLevel)
	}
	if f.DroneID != nil {
		q = q.Where("drone_id = ?", *f.DroneID)
	}
	if f.ZoneID != nil {
		q = q.Where("zone_id = ?", *f.ZoneID)
	}

	var missions []gormModels.Mission
	if err := paginate(q.Order("id ASC"), f.Page).Find(&missions).Error; err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}

	return missions, nil
}

// UpdateVersioned applies fields only if the stored version still equals
// version, bumping it in the same statement. ErrStaleVersion is returned
// when no row matched.
func (r *MissionRepository) UpdateVersioned(ctx context.Context, id, version uint, fields map[string]any) error {
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["version"] = gorm.Expr("version + 1")

	result := r.db.WithContext(ctx).
		Model(&gormModels.Mission{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update mission: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrStaleVersion
	}

	return nil
}

func (r *MissionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&gormModels.Mission{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete mission: %w", err)
	}
	return nil
}

func (r *MissionRepository) CountByDrone(ctx context.Context, droneID uint) (int64, error) {
	return r.count(ctx, "drone_id = ?", droneID)
}

func (r *MissionRepository) CountByZone(ctx context.Context, zoneID uint) (int64, error) {
	return r.count(ctx, "zone_id = ?", zoneID)
}

// CountInProgressByDrone counts in-progress missions flown by droneID.
func (r *MissionRepository) CountInProgressByDrone(ctx context.Context, droneID uint) (int64, error) {
	return r.count(ctx, "drone_id = ? AND status = ?", droneID, constants.MissionInProgress)
}

func (r *MissionRepository) count(ctx context.Context, where string, args ...any) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Mission{}).
		Where(where, args...).
		Count(&n).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count missions: %w", err)
	}
	return n, nil
}
