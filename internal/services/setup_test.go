package services

import (
	"context"
	"testing"

	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db"
	"skyrelief/dispatch/internal/models/dtos"
	gormModels "skyrelief/dispatch/internal/models/gorm"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return conn
}

func uintPtr(v uint) *uint { return &v }

func statusPtr(s constants.MissionStatus) *constants.MissionStatus { return &s }

// Two points in Paris, roughly 1.5 km apart.
func shortMission() dtos.CreateMissionRequest {
	return dtos.CreateMissionRequest{
		CargoWeightKg: 1.2,
		CargoCategory: constants.CargoMedication,
		RiskLevel:     2,
		RecipientName: "Hôpital Necker",
		DepartureLat:  floatPtr(48.8566),
		DepartureLon:  floatPtr(2.3522),
		ArrivalLat:    floatPtr(48.8462),
		ArrivalLon:    floatPtr(2.3371),
	}
}

func floatPtr(v float64) *float64 { return &v }

func setRoute(req *dtos.CreateMissionRequest, depLat, depLon, arrLat, arrLon float64) {
	req.DepartureLat, req.DepartureLon = floatPtr(depLat), floatPtr(depLon)
	req.ArrivalLat, req.ArrivalLon = floatPtr(arrLat), floatPtr(arrLon)
}

func createDrone(t *testing.T, s *DroneService, name string) *gormModels.Drone {
	t.Helper()
	d, err := s.Create(context.Background(), dtos.CreateDroneRequest{
		Name:         name,
		MaxPayloadKg: 5,
		MaxRangeKm:   50,
		MaxSpeedKmh:  60,
		SafetyRating: 4,
	})
	if err != nil {
		t.Fatalf("Failed to create drone: %v", err)
	}
	return d
}

func createZone(t *testing.T, s *ZoneService, level int) *gormModels.FlightZone {
	t.Helper()
	z, err := s.Create(context.Background(), dtos.CreateZoneRequest{
		Name:      "Zone",
		ZoneType:  constants.ZoneUrban,
		RiskLevel: level,
	})
	if err != nil {
		t.Fatalf("Failed to create zone: %v", err)
	}
	return z
}

type fixture struct {
	db       *gorm.DB
	missions *MissionService
	drones   *DroneService
	zones    *ZoneService
	history  *HistoryService
}

func newFixture(t *testing.T) *fixture {
	conn := setupTestDB(t)
	return &fixture{
		db:       conn,
		missions: NewMissionService(conn, nil, nil, nil),
		drones:   NewDroneService(conn, nil, 0, nil),
		zones:    NewZoneService(conn, nil, 0, nil),
		history:  NewHistoryService(conn),
	}
}
