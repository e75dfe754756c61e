package common

import (
	"fmt"
	"strconv"
	"time"

	"skyrelief/dispatch/internal/constants"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// DroneCacheKey and ZoneCacheKey name single-entity cache entries.
func DroneCacheKey(id uint) string {
	return string(constants.CachePrefixDrone) + strconv.FormatUint(uint64(id), 10)
}

func ZoneCacheKey(id uint) string {
	return string(constants.CachePrefixZone) + strconv.FormatUint(uint64(id), 10)
}

// PtrTo returns a pointer to v.
func PtrTo[T any](v T) *T {
	return &v
}
