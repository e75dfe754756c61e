package dtos

import (
	"time"

	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/geo"
	gormModels "skyrelief/dispatch/internal/models/gorm"
)

type APIResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code,omitempty"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

type MissionResponse struct {
	ID               uint                    `json:"id"`
	CargoWeightKg    float64                 `json:"cargo_weight_kg"`
	CargoCategory    constants.CargoCategory `json:"cargo_category"`
	RiskLevel        int                     `json:"risk_level"`
	Description      string                  `json:"description,omitempty"`
	RecipientName    string                  `json:"recipient_name,omitempty"`
	ContactPhone     string                  `json:"contact_phone,omitempty"`
	DepartureLat     float64                 `json:"departure_lat"`
	DepartureLon     float64                 `json:"departure_lon"`
	ArrivalLat       float64                 `json:"arrival_lat"`
	ArrivalLon       float64                 `json:"arrival_lon"`
	DistanceKm       float64                 `json:"distance_km"`
	EstimatedMinutes *int                    `json:"estimated_minutes,omitempty"`
	Status           constants.MissionStatus `json:"status"`
	DroneID          *uint                   `json:"drone_id"`
	ZoneID           *uint                   `json:"zone_id"`
	Version          uint                    `json:"version"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
	StartedAt        *time.Time              `json:"started_at"`
	EndedAt          *time.Time              `json:"ended_at"`
}

// NewMissionResponse maps a stored mission. The flight-time estimate needs
// the assigned drone to be preloaded.
func NewMissionResponse(m *gormModels.Mission) MissionResponse {
	resp := MissionResponse{
		ID:            m.ID,
		CargoWeightKg: m.CargoWeightKg,
		CargoCategory: m.CargoCategory,
		RiskLevel:     m.RiskLevel,
		Description:   m.Description,
		RecipientName: m.RecipientName,
		ContactPhone:  m.ContactPhone,
		DepartureLat:  m.DepartureLat,
		DepartureLon:  m.DepartureLon,
		ArrivalLat:    m.ArrivalLat,
		ArrivalLon:    m.ArrivalLon,
		DistanceKm:    m.DistanceKm,
		Status:        m.Status,
		DroneID:       m.DroneID,
		ZoneID:        m.ZoneID,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		StartedAt:     m.StartedAt,
		EndedAt:       m.EndedAt,
	}

	if m.Drone != nil && m.DroneID != nil {
		if eta := geo.EstimateFlightMinutes(m.DistanceKm, m.Drone.MaxSpeedKmh); eta > 0 {
			resp.EstimatedMinutes = &eta
		}
	}

	return resp
}

func NewMissionResponses(ms []gormModels.Mission) []MissionResponse {
	out := make([]MissionResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewMissionResponse(&ms[i]))
	}
	return out
}

type DroneResponse struct {
	ID              uint                  `json:"id"`
	Name            string                `json:"name"`
	MaxPayloadKg    float64               `json:"max_payload_kg"`
	MaxRangeKm      float64               `json:"max_range_km"`
	MaxSpeedKmh     float64               `json:"max_speed_kmh"`
	SafetyRating    int                   `json:"safety_rating"`
	AuthorizedZones []string              `json:"authorized_zones"`
	Status          constants.DroneStatus `json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

func NewDroneResponse(d *gormModels.Drone) DroneResponse {
	zones := []string(d.AuthorizedZones)
	if zones == nil {
		zones = []string{}
	}
	return DroneResponse{
		ID:              d.ID,
		Name:            d.Name,
		MaxPayloadKg:    d.MaxPayloadKg,
		MaxRangeKm:      d.MaxRangeKm,
		MaxSpeedKmh:     d.MaxSpeedKmh,
		SafetyRating:    d.SafetyRating,
		AuthorizedZones: zones,
		Status:          d.Status,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func NewDroneResponses(ds []gormModels.Drone) []DroneResponse {
	out := make([]DroneResponse, 0, len(ds))
	for i := range ds {
		out = append(out, NewDroneResponse(&ds[i]))
	}
	return out
}

type ZoneResponse struct {
	ID           uint               `json:"id"`
	Name         string             `json:"name"`
	ZoneType     constants.ZoneType `json:"zone_type"`
	RiskLevel    int                `json:"risk_level"`
	Restrictions string             `json:"restrictions,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func NewZoneResponse(z *gormModels.FlightZone) ZoneResponse {
	return ZoneResponse{
		ID:           z.ID,
		Name:         z.Name,
		ZoneType:     z.ZoneType,
		RiskLevel:    z.RiskLevel,
		Restrictions: z.Restrictions,
		CreatedAt:    z.CreatedAt,
		UpdatedAt:    z.UpdatedAt,
	}
}

func NewZoneResponses(zs []gormModels.FlightZone) []ZoneResponse {
	out := make([]ZoneResponse, 0, len(zs))
	for i := range zs {
		out = append(out, NewZoneResponse(&zs[i]))
	}
	return out
}

type HistoryResponse struct {
	ID          uint      `json:"id"`
	MissionID   uint      `json:"mission_id"`
	DroneID     uint      `json:"drone_id"`
	RecordedAt  time.Time `json:"recorded_at"`
	Performance string    `json:"performance,omitempty"`
	Comments    string    `json:"comments,omitempty"`
}

func NewHistoryResponse(h *gormModels.MissionHistoryRecord) HistoryResponse {
	return HistoryResponse{
		ID:          h.ID,
		MissionID:   h.MissionID,
		DroneID:     h.DroneID,
		RecordedAt:  h.RecordedAt,
		Performance: h.Performance,
		Comments:    h.Comments,
	}
}

func NewHistoryResponses(hs []gormModels.MissionHistoryRecord) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(hs))
	for i := range hs {
		out = append(out, NewHistoryResponse(&hs[i]))
	}
	return out
}

// FleetStats is the payload of GET /stats.
type FleetStats struct {
	MissionsByStatus    map[string]int64 `json:"missions_by_status"`
	DronesByStatus      map[string]int64 `json:"drones_by_status"`
	ZonesByRiskLevel    map[int]int64    `json:"zones_by_risk_level"`
	CompletedMissions   int64            `json:"completed_missions"`
	CompletedDistanceKm float64          `json:"completed_distance_km"`
	AverageDistanceKm   float64          `json:"average_distance_km"`
	GeneratedAt         time.Time        `json:"generated_at"`
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Uptime   string                   `json:"uptime"`
	Services map[string]ServiceStatus `json:"services"`
}

type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Health  string `json:"health"`
}
