package api

import (
	"context"
	"net/http"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/models/dtos"
	gormModels "skyrelief/dispatch/internal/models/gorm"
)

// CreateHistoryHandler handles POST /api/v1/history
func CreateHistoryHandler(svc HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateHistoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		h, err := svc.Create(r.Context(), req)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "History record created", dtos.NewHistoryResponse(h), http.StatusCreated)
	}
}

// ListHistoryHandler handles GET /api/v1/history with optional mission_id
// and drone_id filters.
func ListHistoryHandler(svc HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var (
			f   repositories.HistoryFilter
			err error
		)
		if f.Page, err = parsePage(r); err == nil {
			if f.MissionID, err = queryID(r, "mission_id"); err == nil {
				f.DroneID, err = queryID(r, "drone_id")
			}
		}
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		records, err := svc.List(r.Context(), f)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "History fetched", dtos.NewHistoryResponses(records))
	}
}

// HistoryByMissionHandler handles GET /api/v1/history/mission/{id}
func HistoryByMissionHandler(svc HistoryService) http.HandlerFunc {
	return historyBy(svc.ByMission)
}

// HistoryByDroneHandler handles GET /api/v1/history/drone/{id}
func HistoryByDroneHandler(svc HistoryService) http.HandlerFunc {
	return historyBy(svc.ByDrone)
}

func historyBy(list func(context.Context, uint, repositories.Page) ([]gormModels.MissionHistoryRecord, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		page, err := parsePage(r)
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		records, err := list(r.Context(), id, page)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "History fetched", dtos.NewHistoryResponses(records))
	}
}

// GetHistoryHandler handles GET /api/v1/history/{id}
func GetHistoryHandler(svc HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		h, err := svc.Get(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "History record fetched", dtos.NewHistoryResponse(h))
	}
}

// UpdateHistoryHandler handles PATCH /api/v1/history/{id}
func UpdateHistoryHandler(svc HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		var req dtos.UpdateHistoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		h, err := svc.Update(r.Context(), id, req)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "History record updated", dtos.NewHistoryResponse(h))
	}
}

// DeleteHistoryHandler handles DELETE /api/v1/history/{id}
func DeleteHistoryHandler(svc HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
