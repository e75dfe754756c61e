package dtos

import (
	"time"

	"skyrelief/dispatch/internal/constants"
)

// CreateMissionRequest is the payload for POST /missions. The distance is
// derived from the coordinates and has no field here. Coordinates are
// pointers so an omitted one is rejected instead of read as 0.
type CreateMissionRequest struct {
	CargoWeightKg float64                 `json:"cargo_weight_kg" validate:"gt=0"`
	CargoCategory constants.CargoCategory `json:"cargo_category" validate:"required,enum"`
	RiskLevel     int                     `json:"risk_level" validate:"min=1,max=5"`
	Description   string                  `json:"description" validate:"max=1000"`
	RecipientName string                  `json:"recipient_name" validate:"max=255"`
	ContactPhone  string                  `json:"contact_phone" validate:"max=20"`
	DepartureLat  *float64                `json:"departure_lat" validate:"required,min=-90,max=90"`
	DepartureLon  *float64                `json:"departure_lon" validate:"required,min=-180,max=180"`
	ArrivalLat    *float64                `json:"arrival_lat" validate:"required,min=-90,max=90"`
	ArrivalLon    *float64                `json:"arrival_lon" validate:"required,min=-180,max=180"`
	DroneID       *uint                   `json:"drone_id" validate:"omitempty,gt=0"`
	ZoneID        *uint                   `json:"zone_id" validate:"omitempty,gt=0"`
}

// UpdateMissionRequest is a partial update. A zero DroneID or ZoneID clears
// the reference. Version, when present, must match the stored version.
type UpdateMissionRequest struct {
	Status    *constants.MissionStatus `json:"status" validate:"omitempty,enum"`
	DroneID   *uint                    `json:"drone_id"`
	ZoneID    *uint                    `json:"zone_id"`
	StartedAt *time.Time               `json:"started_at"`
	EndedAt   *time.Time               `json:"ended_at"`
	Version   *uint                    `json:"version" validate:"omitempty,gt=0"`
}

type CreateDroneRequest struct {
	Name            string                 `json:"name" validate:"required,max=255"`
	MaxPayloadKg    float64                `json:"max_payload_kg" validate:"gt=0"`
	MaxRangeKm      float64                `json:"max_range_km" validate:"gt=0"`
	MaxSpeedKmh     float64                `json:"max_speed_kmh" validate:"gt=0"`
	SafetyRating    int                    `json:"safety_rating" validate:"min=1,max=5"`
	AuthorizedZones []string               `json:"authorized_zones" validate:"omitempty,dive,required,max=255"`
	Status          *constants.DroneStatus `json:"status" validate:"omitempty,enum"`
}

type UpdateDroneRequest struct {
	Name            *string                `json:"name" validate:"omitempty,min=1,max=255"`
	MaxPayloadKg    *float64               `json:"max_payload_kg" validate:"omitempty,gt=0"`
	MaxRangeKm      *float64               `json:"max_range_km" validate:"omitempty,gt=0"`
	MaxSpeedKmh     *float64               `json:"max_speed_kmh" validate:"omitempty,gt=0"`
	SafetyRating    *int                   `json:"safety_rating" validate:"omitempty,min=1,max=5"`
	AuthorizedZones *[]string              `json:"authorized_zones" validate:"omitempty,dive,required,max=255"`
	Status          *constants.DroneStatus `json:"status" validate:"omitempty,enum"`
}

type CreateZoneRequest struct {
	Name         string             `json:"name" validate:"required,max=255"`
	ZoneType     constants.ZoneType `json:"zone_type" validate:"required,enum"`
	RiskLevel    int                `json:"risk_level" validate:"min=1,max=5"`
	Restrictions string             `json:"restrictions"`
}

type UpdateZoneRequest struct {
	Name         *string             `json:"name" validate:"omitempty,min=1,max=255"`
	ZoneType     *constants.ZoneType `json:"zone_type" validate:"omitempty,enum"`
	RiskLevel    *int                `json:"risk_level" validate:"omitempty,min=1,max=5"`
	Restrictions *string             `json:"restrictions"`
}

type CreateHistoryRequest struct {
	MissionID   uint       `json:"mission_id" validate:"required"`
	DroneID     uint       `json:"drone_id" validate:"required"`
	RecordedAt  *time.Time `json:"recorded_at"`
	Performance string     `json:"performance" validate:"max=255"`
	Comments    string     `json:"comments"`
}

// UpdateHistoryRequest only carries the mutable fields of a history record.
type UpdateHistoryRequest struct {
	Performance *string `json:"performance" validate:"omitempty,max=255"`
	Comments    *string `json:"comments"`
}
