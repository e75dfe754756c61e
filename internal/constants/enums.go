package constants

import (
	"database/sql/driver"
	"fmt"
)

// MissionStatus is the lifecycle state of a delivery mission.
type MissionStatus string

const (
	MissionPending    MissionStatus = "pending"
	MissionInProgress MissionStatus = "in-progress"
	MissionCompleted  MissionStatus = "completed"
	MissionFailed     MissionStatus = "failed"
	MissionCancelled  MissionStatus = "cancelled"
)

var MissionStatuses = []MissionStatus{
	MissionPending, MissionInProgress, MissionCompleted, MissionFailed, MissionCancelled,
}

func (s MissionStatus) String() string { return string(s) }

func (s MissionStatus) Valid() bool { return contains(MissionStatuses, s) }

// Terminal reports whether no further transition is allowed.
func (s MissionStatus) Terminal() bool {
	return s == MissionCompleted || s == MissionFailed || s == MissionCancelled
}

func (s *MissionStatus) Scan(src interface{}) error {
	return scanString(src, (*string)(s), "MissionStatus")
}

func (s MissionStatus) Value() (driver.Value, error) { return string(s), nil }

// CargoCategory classifies mission payloads.
type CargoCategory string

const (
	CargoBloodPack      CargoCategory = "blood-pack"
	CargoDefibrillator  CargoCategory = "defibrillator"
	CargoMedication     CargoCategory = "medication"
	CargoMechanicalPart CargoCategory = "mechanical-part"
	CargoFragile        CargoCategory = "fragile"
	CargoPerishable     CargoCategory = "perishable"
	CargoOther          CargoCategory = "other"
)

var CargoCategories = []CargoCategory{
	CargoBloodPack, CargoDefibrillator, CargoMedication, CargoMechanicalPart,
	CargoFragile, CargoPerishable, CargoOther,
}

func (c CargoCategory) String() string { return string(c) }

func (c CargoCategory) Valid() bool { return contains(CargoCategories, c) }

func (c *CargoCategory) Scan(src interface{}) error {
	return scanString(src, (*string)(c), "CargoCategory")
}

func (c CargoCategory) Value() (driver.Value, error) { return string(c), nil }

// DroneStatus is the operational state of a fleet vehicle.
type DroneStatus string

const (
	DroneAvailable     DroneStatus = "available"
	DroneOnMission     DroneStatus = "on-mission"
	DroneInMaintenance DroneStatus = "in-maintenance"
	DroneOutOfService  DroneStatus = "out-of-service"
)

var DroneStatuses = []DroneStatus{
	DroneAvailable, DroneOnMission, DroneInMaintenance, DroneOutOfService,
}

func (s DroneStatus) String() string { return string(s) }

func (s DroneStatus) Valid() bool { return contains(DroneStatuses, s) }

func (s *DroneStatus) Scan(src interface{}) error {
	return scanString(src, (*string)(s), "DroneStatus")
}

func (s DroneStatus) Value() (driver.Value, error) { return string(s), nil }

// ZoneType classifies flight zones.
type ZoneType string

const (
	ZoneUrban       ZoneType = "urban"
	ZoneRural       ZoneType = "rural"
	ZoneIndustrial  ZoneType = "industrial"
	ZoneResidential ZoneType = "residential"
	ZoneCommercial  ZoneType = "commercial"
	ZoneMilitary    ZoneType = "military"
	ZoneHospital    ZoneType = "hospital"
)

var ZoneTypes = []ZoneType{
	ZoneUrban, ZoneRural, ZoneIndustrial, ZoneResidential, ZoneCommercial, ZoneMilitary, ZoneHospital,
}

func (z ZoneType) String() string { return string(z) }

func (z ZoneType) Valid() bool { return contains(ZoneTypes, z) }

func (z *ZoneType) Scan(src interface{}) error { return scanString(src, (*string)(z), "ZoneType") }

func (z ZoneType) Value() (driver.Value, error) { return string(z), nil }

// Risk and safety levels share the same 1..5 scale.
const (
	MinRiskLevel = 1
	MaxRiskLevel = 5
)

func ValidRiskLevel(level int) bool {
	return level >= MinRiskLevel && level <= MaxRiskLevel
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func scanString(src interface{}, dst *string, typeName string) error {
	if src == nil {
		*dst = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*dst = v
	case []byte:
		*dst = string(v)
	default:
		return fmt.Errorf("%s: cannot scan type %T", typeName, src)
	}
	return nil
}
