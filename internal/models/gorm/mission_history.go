package gorm

import "time"

// MissionHistoryRecord is an append-style log entry tying a mission outcome
// to the drone that flew it. Only Performance and Comments are mutable.
type MissionHistoryRecord struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	MissionID   uint      `gorm:"column:mission_id;not null;index"`
	DroneID     uint      `gorm:"column:drone_id;not null;index"`
	RecordedAt  time.Time `gorm:"column:recorded_at;not null"`
	Performance string    `gorm:"column:performance;type:varchar(255)"`
	Comments    string    `gorm:"column:comments;type:text"`

	// Relationships
	Mission Mission `gorm:"foreignKey:MissionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Drone   Drone   `gorm:"foreignKey:DroneID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName specifies the table name for GORM
func (MissionHistoryRecord) TableName() string {
	return "mission_history"
}
