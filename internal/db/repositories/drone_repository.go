package repositories

import (
	"context"
	"errors"
	"fmt"

	"skyrelief/dispatch/internal/constants"
	gormModels "skyrelief/dispatch/internal/models/gorm"

	"gorm.io/gorm"
)

type DroneFilter struct {
	Status *constants.DroneStatus
	Page
}

// DroneRepository handles drones table operations using GORM
type DroneRepository struct {
	db *gorm.DB
}

func NewDroneRepository(db *gorm.DB) *DroneRepository {
	return &DroneRepository{db: db}
}

func (r *DroneRepository) WithTx(tx *gorm.DB) *DroneRepository {
	return &DroneRepository{db: tx}
}

func (r *DroneRepository) Create(ctx context.Context, d *gormModels.Drone) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("failed to create drone: %w", err)
	}
	return nil
}

// GetByID returns nil, nil when the drone does not exist.
func (r *DroneRepository) GetByID(ctx context.Context, id uint) (*gormModels.Drone, error) {
	var d gormModels.Drone

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch drone: %w", err)
	}

	return &d, nil
}

func (r *DroneRepository) List(ctx context.Context, f DroneFilter) ([]gormModels.Drone, error) {
	q := r.db.WithContext(ctx).Model(&gormModels.Drone{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var drones []gormModels.Drone
	if err := paginate(q.Order("id ASC"), f.Page).Find(&drones).Error; err != nil {
		return nil, fmt.Errorf("failed to list drones: %w", err)
	}

	return drones, nil
}

func (r *DroneRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.Drone{}).
		Where("id = ?", id).
		Updates(fields)

	if result.Error != nil {
		return fmt.Errorf("failed to update drone: %w", result.Error)
	}
	return nil
}

// SwapStatus moves the drone from one status to another only if it is
// currently in from. It reports whether the row changed.
func (r *DroneRepository) SwapStatus(ctx context.Context, id uint, from, to constants.DroneStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&gormModels.Drone{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	if result.Error != nil {
		return false, fmt.Errorf("failed to update drone status: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *DroneRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&gormModels.Drone{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete drone: %w", err)
	}
	return nil
}
