package constants

// Fleet statistics. Written with ? placeholders and rebound per driver.
const (
	CountMissionsByStatus = `
	SELECT status AS label, COUNT(*) AS total FROM missions GROUP BY status
	`

	CountDronesByStatus = `
	SELECT status AS label, COUNT(*) AS total FROM drones GROUP BY status
	`

	CountZonesByRisk = `
	SELECT risk_level AS level, COUNT(*) AS total FROM flight_zones GROUP BY risk_level
	`

	CompletedDistanceSummary = `
	SELECT COUNT(*) AS missions, COALESCE(SUM(distance_km), 0) AS total_km, COALESCE(AVG(distance_km), 0) AS average_km
	FROM missions WHERE status = ?
	`
)
