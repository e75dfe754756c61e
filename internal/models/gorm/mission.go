package gorm

import (
	"time"

	"skyrelief/dispatch/internal/constants"
)

// Mission is a single delivery from a departure point to an arrival point.
// DistanceKm is computed once at creation and never accepted from clients.
type Mission struct {
	ID            uint                    `gorm:"column:id;primaryKey;autoIncrement"`
	CargoWeightKg float64                 `gorm:"column:cargo_weight_kg;not null"`
	CargoCategory constants.CargoCategory `gorm:"column:cargo_category;type:varchar(32);not null;index"`
	RiskLevel     int                     `gorm:"column:risk_level;not null;index"`
	Description   string                  `gorm:"column:description;type:varchar(1000)"`
	RecipientName string                  `gorm:"column:recipient_name;type:varchar(255)"`
	ContactPhone  string                  `gorm:"column:contact_phone;type:varchar(20)"`

	DepartureLat float64 `gorm:"column:departure_lat;not null"`
	DepartureLon float64 `gorm:"column:departure_lon;not null"`
	ArrivalLat   float64 `gorm:"column:arrival_lat;not null"`
	ArrivalLon   float64 `gorm:"column:arrival_lon;not null"`
	DistanceKm   float64 `gorm:"column:distance_km;not null"`

	Status  constants.MissionStatus `gorm:"column:status;type:varchar(20);not null;default:pending;index"`
	DroneID *uint                   `gorm:"column:drone_id;index"`
	ZoneID  *uint                   `gorm:"column:zone_id;index"`

	// Optimistic lock token, bumped on every update.
	Version uint `gorm:"column:version;not null;default:1"`

	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	StartedAt *time.Time `gorm:"column:started_at"`
	EndedAt   *time.Time `gorm:"column:ended_at"`

	// Relationships
	Drone *Drone      `gorm:"foreignKey:DroneID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Zone  *FlightZone `gorm:"foreignKey:ZoneID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName specifies the table name for GORM
func (Mission) TableName() string {
	return "missions"
}
