package gorm

import (
	"time"

	"skyrelief/dispatch/internal/constants"

	"gorm.io/datatypes"
)

type Drone struct {
	ID              uint                        `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string                      `gorm:"column:name;type:varchar(255);not null"`
	MaxPayloadKg    float64                     `gorm:"column:max_payload_kg;not null"`
	MaxRangeKm      float64                     `gorm:"column:max_range_km;not null"`
	MaxSpeedKmh     float64                     `gorm:"column:max_speed_kmh;not null"`
	SafetyRating    int                         `gorm:"column:safety_rating;not null"`
	AuthorizedZones datatypes.JSONSlice[string] `gorm:"column:authorized_zones"`
	Status          constants.DroneStatus       `gorm:"column:status;type:varchar(20);not null;default:available;index"`
	CreatedAt       time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Drone) TableName() string {
	return "drones"
}
