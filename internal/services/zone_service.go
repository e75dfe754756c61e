package services

import (
	"context"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/metrics"
	"skyrelief/dispatch/internal/models/dtos"
	gormModels "skyrelief/dispatch/internal/models/gorm"

	"gorm.io/gorm"
)

type ZoneService struct {
	db       *gorm.DB
	zones    *repositories.ZoneRepository
	cache    common.CacheInterface
	cacheTTL time.Duration
	metrics  *metrics.MetricsRegistry
}

func NewZoneService(db *gorm.DB, cache common.CacheInterface, cacheTTL time.Duration, reg *metrics.MetricsRegistry) *ZoneService {
	return &ZoneService{
		db:       db,
		zones:    repositories.NewZoneRepository(db),
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  reg,
	}
}

func (s *ZoneService) Create(ctx context.Context, req dtos.CreateZoneRequest) (*gormModels.FlightZone, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	z := &gormModels.FlightZone{
		Name:         req.Name,
		ZoneType:     req.ZoneType,
		RiskLevel:    req.RiskLevel,
		Restrictions: req.Restrictions,
	}

	if err := s.zones.Create(ctx, z); err != nil {
		return nil, storageError(err)
	}
	s.invalidate(z.ID)
	return z, nil
}

func (s *ZoneService) Get(ctx context.Context, id uint) (*gormModels.FlightZone, error) {
	load := func() (gormModels.FlightZone, error) {
		z, err := s.zones.GetByID(ctx, id)
		if err != nil {
			return gormModels.FlightZone{}, storageError(err)
		}
		if z == nil {
			return gormModels.FlightZone{}, notFound("zone", id)
		}
		return *z, nil
	}

	if s.cache == nil {
		z, err := load()
		if err != nil {
			return nil, err
		}
		return &z, nil
	}

	z, err := common.GetOrLoad(s.cache, s.metrics, "zone", common.ZoneCacheKey(id), s.cacheTTL, load)
	if err != nil {
		return nil, err
	}
	return &z, nil
}

func (s *ZoneService) List(ctx context.Context, f repositories.ZoneFilter) ([]gormModels.FlightZone, error) {
	zones, err := s.zones.List(ctx, f)
	return zones, storageError(err)
}

// ByRiskLevel lists zones of one risk level; the level must be on the 1..5
// scale.
func (s *ZoneService) ByRiskLevel(ctx context.Context, level int, page repositories.Page) ([]gormModels.FlightZone, error) {
	if !constants.ValidRiskLevel(level) {
		return nil, newError(KindValidation, "risk level must be between %d and %d", constants.MinRiskLevel, constants.MaxRiskLevel)
	}
	return s.List(ctx, repositories.ZoneFilter{RiskLevel: &level, Page: page})
}

func (s *ZoneService) Update(ctx context.Context, id uint, req dtos.UpdateZoneRequest) (*gormModels.FlightZone, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated *gormModels.FlightZone

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		zones := s.zones.WithTx(tx)

		z, err := zones.GetByID(ctx, id)
		if err != nil {
			return storageError(err)
		}
		if z == nil {
			return notFound("zone", id)
		}

		fields := map[string]any{}
		if req.Name != nil {
			fields["name"] = *req.Name
		}
		if req.ZoneType != nil {
			fields["zone_type"] = *req.ZoneType
		}
		if req.RiskLevel != nil {
			fields["risk_level"] = *req.RiskLevel
		}
		if req.Restrictions != nil {
			fields["restrictions"] = *req.Restrictions
		}

		if len(fields) > 0 {
			if err := zones.Update(ctx, id, fields); err != nil {
				return storageError(err)
			}
		}

		updated, err = zones.GetByID(ctx, id)
		return storageError(err)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(id)
	return updated, nil
}

// Delete removes a zone no mission references.
func (s *ZoneService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		zones := s.zones.WithTx(tx)

		z, err := zones.GetByID(ctx, id)
		if err != nil {
			return storageError(err)
		}
		if z == nil {
			return notFound("zone", id)
		}

		n, err := repositories.NewMissionRepository(tx).CountByZone(ctx, id)
		if err != nil {
			return storageError(err)
		}
		if n > 0 {
			return newError(KindReferentialConstraint, "zone %d is referenced by %d missions", id, n)
		}

		return storageError(zones.Delete(ctx, id))
	})
	if err != nil {
		return err
	}

	s.invalidate(id)
	return nil
}

func (s *ZoneService) invalidate(id uint) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(common.ZoneCacheKey(id))
	s.cache.Delete(string(constants.CachePrefixStats))
}
