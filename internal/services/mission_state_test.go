package services

import (
	"errors"
	"testing"

	"skyrelief/dispatch/internal/constants"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    constants.MissionStatus
		to      constants.MissionStatus
		drone   bool
		allowed bool
	}{
		{"start with drone", constants.MissionPending, constants.MissionInProgress, true, true},
		{"start without drone", constants.MissionPending, constants.MissionInProgress, false, false},
		{"cancel pending", constants.MissionPending, constants.MissionCancelled, false, true},
		{"complete pending", constants.MissionPending, constants.MissionCompleted, true, false},
		{"complete in-progress", constants.MissionInProgress, constants.MissionCompleted, true, true},
		{"fail in-progress", constants.MissionInProgress, constants.MissionFailed, true, true},
		{"cancel in-progress", constants.MissionInProgress, constants.MissionCancelled, true, true},
		{"back to pending", constants.MissionInProgress, constants.MissionPending, true, false},
		{"reopen completed", constants.MissionCompleted, constants.MissionPending, true, false},
		{"restart failed", constants.MissionFailed, constants.MissionInProgress, true, false},
		{"uncancel", constants.MissionCancelled, constants.MissionPending, false, false},
		{"same state terminal", constants.MissionCompleted, constants.MissionCompleted, true, true},
		{"same state pending", constants.MissionPending, constants.MissionPending, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransition(tt.from, tt.to, tt.drone)
			if tt.allowed && err != nil {
				t.Errorf("Expected transition allowed, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, ErrInvalidStateTransition) {
				t.Errorf("Expected InvalidStateTransition, got %v", err)
			}
		})
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, from := range constants.MissionStatuses {
		if !from.Terminal() {
			continue
		}
		for _, to := range constants.MissionStatuses {
			if to == from {
				continue
			}
			if err := CheckTransition(from, to, true); err == nil {
				t.Errorf("Terminal %s should not move to %s", from, to)
			}
		}
	}
}

func TestServiceErrorKinds(t *testing.T) {
	err := notFound("mission", 9)
	if !errors.Is(err, ErrNotFound) {
		t.Error("Expected errors.Is to match NotFound")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("NotFound should not match ValidationError")
	}
	if KindOf(err) != KindNotFound {
		t.Errorf("Expected KindNotFound, got %s", KindOf(err))
	}
	if KindOf(errors.New("plain")) != KindStorage {
		t.Error("Plain errors should classify as storage errors")
	}

	wrapped := storageError(errors.New("disk on fire"))
	if !errors.Is(wrapped, ErrStorage) {
		t.Error("Expected storage kind")
	}
	if storageError(err) != err {
		t.Error("storageError should pass service errors through")
	}
}
