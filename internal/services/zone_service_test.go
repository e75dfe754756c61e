package services

import (
	"context"
	"errors"
	"testing"

	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/models/dtos"
)

func TestZoneService_DeleteReferencedZone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	zone := createZone(t, f.zones, 4)

	req := shortMission()
	req.ZoneID = &zone.ID
	if _, err := f.missions.Create(ctx, req); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := f.zones.Delete(ctx, zone.ID); !errors.Is(err, ErrReferentialConstraint) {
		t.Fatalf("Expected ReferentialConstraintViolation, got %v", err)
	}

	if _, err := f.zones.Get(ctx, zone.ID); err != nil {
		t.Errorf("Zone should survive a denied delete, got %v", err)
	}
}

func TestZoneService_ByRiskLevel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	createZone(t, f.zones, 1)
	createZone(t, f.zones, 5)
	createZone(t, f.zones, 5)

	got, err := f.zones.ByRiskLevel(ctx, 5, repositories.Page{})
	if err != nil {
		t.Fatalf("ByRiskLevel failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 zones at level 5, got %d", len(got))
	}

	for _, level := range []int{0, 6} {
		if _, err := f.zones.ByRiskLevel(ctx, level, repositories.Page{}); !errors.Is(err, ErrValidation) {
			t.Errorf("Level %d: expected ValidationError, got %v", level, err)
		}
	}
}

func TestZoneService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	zone := createZone(t, f.zones, 2)

	hospital := constants.ZoneHospital
	level := 6
	if _, err := f.zones.Update(ctx, zone.ID, dtos.UpdateZoneRequest{RiskLevel: &level}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ValidationError, got %v", err)
	}

	got, err := f.zones.Update(ctx, zone.ID, dtos.UpdateZoneRequest{ZoneType: &hospital})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.ZoneType != constants.ZoneHospital || got.RiskLevel != 2 {
		t.Errorf("Unexpected zone after update: %s / %d", got.ZoneType, got.RiskLevel)
	}

	if _, err := f.zones.Update(ctx, 999, dtos.UpdateZoneRequest{ZoneType: &hospital}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected NotFound, got %v", err)
	}
}
