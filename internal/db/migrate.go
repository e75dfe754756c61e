package db

import (
	"fmt"

	gormModels "skyrelief/dispatch/internal/models/gorm"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema. Referenced tables come first.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&gormModels.Drone{},
		&gormModels.FlightZone{},
		&gormModels.Mission{},
		&gormModels.MissionHistoryRecord{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
