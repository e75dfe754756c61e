package repositories

import (
	"context"
	"errors"
	"fmt"

	"skyrelief/dispatch/internal/constants"
	gormModels "skyrelief/dispatch/internal/models/gorm"

	"gorm.io/gorm"
)

type ZoneFilter struct {
	RiskLevel *int
	ZoneType  *constants.ZoneType
	Page
}

// ZoneRepository handles flight_zones table operations using GORM
type ZoneRepository struct {
	db *gorm.DB
}

func NewZoneRepository(db *gorm.DB) *ZoneRepository {
	return &ZoneRepository{db: db}
}

func (r *ZoneRepository) WithTx(tx *gorm.DB) *ZoneRepository {
	return &ZoneRepository{db: tx}
}

func (r *ZoneRepository) Create(ctx context.Context, z *gormModels.FlightZone) error {
	if err := r.db.WithContext(ctx).Create(z).Error; err != nil {
		return fmt.Errorf("failed to create zone: %w", err)
	}
	return nil
}

// GetByID returns nil, nil when the zone does not exist.
func (r *ZoneRepository) GetByID(ctx context.Context, id uint) (*gormModels.FlightZone, error) {
	var z gormModels.FlightZone

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&z).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch zone: %w", err)
	}

	return &z, nil
}

func (r *ZoneRepository) List(ctx context.Context, f ZoneFilter) ([]gormModels.FlightZone, error) {
	q := r.db.WithContext(ctx).Model(&gormModels.FlightZone{})
	if f.RiskLevel != nil {
		q = q.Where("risk_level = ?", *f.RiskLevel)
	}
	if f.ZoneType != nil {
		q = q.Where("zone_type = ?", *f.ZoneType)
	}

	var zones []gormModels.FlightZone
	if err := paginate(q.Order("id ASC"), f.Page).Find(&zones).Error; err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	return zones, nil
}

func (r *ZoneRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.FlightZone{}).
		Where("id = ?", id).
		Updates(fields)

	if result.Error != nil {
		return fmt.Errorf("failed to update zone: %w", result.Error)
	}
	return nil
}

func (r *ZoneRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&gormModels.FlightZone{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}
	return nil
}
