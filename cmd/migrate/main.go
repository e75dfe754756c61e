package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/config"
	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/logging"
	"skyrelief/dispatch/internal/models/dtos"
	"skyrelief/dispatch/internal/services"

	"gorm.io/gorm"
)

func main() {
	seed := flag.Bool("seed", false, "insert a demo fleet and zones into an empty database")
	flag.Parse()

	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logging.Init(cfg.AppEnv, cfg.Logging.Level); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Close()

	orm, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	if err := db.Migrate(orm); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	logging.Info("Schema migrated", "driver", cfg.DB.Driver)

	if !*seed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seedDemoData(ctx, orm); err != nil {
		log.Fatalf("seed: %v", err)
	}
}

func seedDemoData(ctx context.Context, orm *gorm.DB) error {
	cache := common.NewCacheService(time.Minute, time.Minute)
	drones := services.NewDroneService(orm, cache, time.Minute, nil)
	zones := services.NewZoneService(orm, cache, time.Minute, nil)

	existing, err := drones.List(ctx, repositories.DroneFilter{Page: repositories.Page{Limit: 1}})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logging.Info("Database already has drones, skipping seed", "sample", existing[0].Name)
		return nil
	}

	for _, req := range []dtos.CreateZoneRequest{
		{Name: "Central Hospital Corridor", ZoneType: constants.ZoneHospital, RiskLevel: 1},
		{Name: "Riverside Residential", ZoneType: constants.ZoneResidential, RiskLevel: 2},
		{Name: "Port Industrial Area", ZoneType: constants.ZoneIndustrial, RiskLevel: 4, Restrictions: "no flights below 60m"},
	} {
		z, err := zones.Create(ctx, req)
		if err != nil {
			return err
		}
		logging.Info("Seeded zone", "id", z.ID, "name", z.Name)
	}

	for _, req := range []dtos.CreateDroneRequest{
		{Name: "Kestrel-1", MaxPayloadKg: 3, MaxRangeKm: 40, MaxSpeedKmh: 70, SafetyRating: 5, AuthorizedZones: []string{"hospital", "residential"}},
		{Name: "Kestrel-2", MaxPayloadKg: 3, MaxRangeKm: 40, MaxSpeedKmh: 70, SafetyRating: 4},
		{Name: "Heron-HL", MaxPayloadKg: 12, MaxRangeKm: 25, MaxSpeedKmh: 55, SafetyRating: 3, AuthorizedZones: []string{"industrial"}},
	} {
		d, err := drones.Create(ctx, req)
		if err != nil {
			return err
		}
		logging.Info("Seeded drone", "id", d.ID, "name", d.Name)
	}

	return nil
}
