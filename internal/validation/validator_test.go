package validation

import (
	"errors"
	"strings"
	"testing"

	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/models/dtos"
)

func validMission() dtos.CreateMissionRequest {
	return dtos.CreateMissionRequest{
		CargoWeightKg: 2.5,
		CargoCategory: constants.CargoBloodPack,
		RiskLevel:     3,
		DepartureLat:  coord(48.8566),
		DepartureLon:  coord(2.3522),
		ArrivalLat:    coord(51.5074),
		ArrivalLon:    coord(-0.1278),
	}
}

func coord(v float64) *float64 { return &v }

func TestStruct_ValidMission(t *testing.T) {
	req := validMission()
	if err := Struct(req); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestStruct_RiskLevelBounds(t *testing.T) {
	for _, level := range []int{1, 2, 3, 4, 5} {
		req := validMission()
		req.RiskLevel = level
		if err := Struct(req); err != nil {
			t.Errorf("Risk level %d should be accepted, got %v", level, err)
		}
	}

	for _, level := range []int{0, 6, -1} {
		req := validMission()
		req.RiskLevel = level
		err := Struct(req)

		var verr *Error
		if !errors.As(err, &verr) {
			t.Fatalf("Risk level %d: expected *Error, got %v", level, err)
		}
		if verr.Fields[0].Field != "risk_level" {
			t.Errorf("Expected risk_level field, got %s", verr.Fields[0].Field)
		}
	}
}

func TestStruct_UnknownEnum(t *testing.T) {
	req := validMission()
	req.CargoCategory = "plutonium"

	err := Struct(req)
	if err == nil || !strings.Contains(err.Error(), "cargo_category") {
		t.Fatalf("Expected cargo_category error, got %v", err)
	}
}

func TestStruct_CoordinateBounds(t *testing.T) {
	req := validMission()
	req.ArrivalLat = coord(91)
	req.DepartureLon = coord(-181)

	var verr *Error
	if !errors.As(Struct(req), &verr) {
		t.Fatal("Expected validation error")
	}
	if len(verr.Fields) != 2 {
		t.Errorf("Expected 2 field errors, got %d: %v", len(verr.Fields), verr)
	}
}

func TestStruct_MissingCoordinates(t *testing.T) {
	req := validMission()
	req.DepartureLat = nil
	req.ArrivalLon = nil

	var verr *Error
	if !errors.As(Struct(req), &verr) {
		t.Fatal("Expected validation error")
	}
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Rule
	}
	if fields["departure_lat"] != "required" || fields["arrival_lon"] != "required" {
		t.Errorf("Expected required errors for both coordinates, got %v", verr.Fields)
	}

	// Zero is a real coordinate, not a missing one.
	req = validMission()
	req.DepartureLat, req.DepartureLon = coord(0), coord(0)
	if err := Struct(req); err != nil {
		t.Errorf("Expected (0,0) to pass, got %v", err)
	}
}

func TestStruct_OptionalEnumPointer(t *testing.T) {
	bad := constants.MissionStatus("teleported")
	good := constants.MissionCancelled

	if err := Struct(dtos.UpdateMissionRequest{Status: &good}); err != nil {
		t.Errorf("Expected valid status to pass, got %v", err)
	}
	if err := Struct(dtos.UpdateMissionRequest{Status: &bad}); err == nil {
		t.Error("Expected unknown status to fail")
	}
	if err := Struct(dtos.UpdateMissionRequest{}); err != nil {
		t.Errorf("Expected empty update to pass, got %v", err)
	}
}

func TestStruct_DroneFields(t *testing.T) {
	req := dtos.CreateDroneRequest{
		Name:         "",
		MaxPayloadKg: 0,
		MaxRangeKm:   10,
		MaxSpeedKmh:  60,
		SafetyRating: 3,
	}

	var verr *Error
	if !errors.As(Struct(req), &verr) {
		t.Fatal("Expected validation error")
	}

	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	if !fields["name"] || !fields["max_payload_kg"] {
		t.Errorf("Expected name and max_payload_kg errors, got %v", verr.Fields)
	}
}
