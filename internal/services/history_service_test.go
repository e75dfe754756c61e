package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/models/dtos"
)

func TestHistoryService_CreateReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	drone := createDrone(t, f.drones, "A")
	m, _ := f.missions.Create(ctx, shortMission())

	if _, err := f.history.Create(ctx, dtos.CreateHistoryRequest{MissionID: 999, DroneID: drone.ID}); !errors.Is(err, ErrReferenceNotFound) {
		t.Errorf("Expected ReferenceNotFound for mission, got %v", err)
	}
	if _, err := f.history.Create(ctx, dtos.CreateHistoryRequest{MissionID: m.ID, DroneID: 999}); !errors.Is(err, ErrReferenceNotFound) {
		t.Errorf("Expected ReferenceNotFound for drone, got %v", err)
	}
	if _, err := f.history.Create(ctx, dtos.CreateHistoryRequest{DroneID: drone.ID}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ValidationError for missing mission_id, got %v", err)
	}

	h, err := f.history.Create(ctx, dtos.CreateHistoryRequest{MissionID: m.ID, DroneID: drone.ID, Performance: "nominal"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if h.RecordedAt.IsZero() {
		t.Error("Expected recorded_at to default to now")
	}
}

func TestHistoryService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	drone := createDrone(t, f.drones, "A")
	m, _ := f.missions.Create(ctx, shortMission())

	h, _ := f.history.Create(ctx, dtos.CreateHistoryRequest{MissionID: m.ID, DroneID: drone.ID})

	comments := "battery swapped at depot"
	got, err := f.history.Update(ctx, h.ID, dtos.UpdateHistoryRequest{Comments: &comments})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Comments != comments || got.MissionID != m.ID {
		t.Errorf("Unexpected record after update: %+v", got)
	}

	if err := f.history.Delete(ctx, h.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := f.history.Get(ctx, h.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected NotFound after delete, got %v", err)
	}

	// With its history gone the mission can be deleted.
	if err := f.missions.Delete(ctx, m.ID); err != nil {
		t.Errorf("Expected mission delete to succeed, got %v", err)
	}
}

func TestHistoryService_RecordOutcomeAndQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	drone := createDrone(t, f.drones, "A")
	m, _ := f.missions.Create(ctx, shortMission())

	at := time.Now().UTC()
	h, err := f.history.RecordOutcome(ctx, m.ID, drone.ID, constants.MissionCompleted, at)
	if err != nil {
		t.Fatalf("RecordOutcome failed: %v", err)
	}
	if h.Performance != "completed" || h.Comments == "" {
		t.Errorf("Unexpected auto record: %+v", h)
	}

	byMission, _ := f.history.ByMission(ctx, m.ID, repositories.Page{})
	byDrone, _ := f.history.ByDrone(ctx, drone.ID, repositories.Page{})
	if len(byMission) != 1 || len(byDrone) != 1 {
		t.Errorf("Expected one record per view, got %d / %d", len(byMission), len(byDrone))
	}

	viaMission, err := f.missions.History(ctx, m.ID, repositories.Page{})
	if err != nil || len(viaMission) != 1 {
		t.Errorf("Expected mission history of 1, got %d (%v)", len(viaMission), err)
	}
	if _, err := f.drones.History(ctx, 999, repositories.Page{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected NotFound for unknown drone, got %v", err)
	}
}
