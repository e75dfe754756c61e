package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	ServiceName    = "Drone Delivery API"
	ServiceVersion = "1.0.0"

	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixDrone CachePrefix = "DRONE_"
	CachePrefixZone  CachePrefix = "ZONE_"
	CachePrefixStats CachePrefix = "FLEET_STATS"

	DefaultListLimit = 100
	MaxListLimit     = 500
)

// Mission event stream
const (
	MissionEventStream = "mission:events"
	HistoryWorkerGroup = "history-workers"
)
