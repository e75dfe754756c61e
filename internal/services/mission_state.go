package services

import "skyrelief/dispatch/internal/constants"

var missionTransitions = map[constants.MissionStatus][]constants.MissionStatus{
	constants.MissionPending:    {constants.MissionInProgress, constants.MissionCancelled},
	constants.MissionInProgress: {constants.MissionCompleted, constants.MissionFailed, constants.MissionCancelled},
}

// CheckTransition reports whether a mission may move from one status to
// another. Same-status moves are always allowed and are treated as no-ops.
// Starting a mission requires an assigned drone.
func CheckTransition(from, to constants.MissionStatus, droneAssigned bool) error {
	if from == to {
		return nil
	}

	allowed := false
	for _, next := range missionTransitions[from] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return newError(KindInvalidStateTransition, "cannot move mission from %s to %s", from, to)
	}

	if to == constants.MissionInProgress && !droneAssigned {
		return newError(KindInvalidStateTransition, "a drone must be assigned before the mission starts")
	}

	return nil
}
