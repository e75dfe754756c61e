package gorm

import (
	"time"

	"skyrelief/dispatch/internal/constants"
)

// FlightZone is a named area with a risk classification.
type FlightZone struct {
	ID           uint               `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string             `gorm:"column:name;type:varchar(255);not null"`
	ZoneType     constants.ZoneType `gorm:"column:zone_type;type:varchar(20);not null;index"`
	RiskLevel    int                `gorm:"column:risk_level;not null;index"`
	Restrictions string             `gorm:"column:restrictions;type:text"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (FlightZone) TableName() string {
	return "flight_zones"
}
