package api

import (
	"net/http"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// CreateMissionHandler handles POST /api/v1/missions
func CreateMissionHandler(svc MissionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateMissionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		m, err := svc.Create(r.Context(), req)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Mission created", dtos.NewMissionResponse(m), http.StatusCreated)
	}
}

// ListMissionsHandler handles GET /api/v1/missions with optional
// status, category, risk_level, drone_id and zone_id filters.
func ListMissionsHandler(svc MissionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		f, err := missionFilter(r)
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		listMissions(w, r, initTime, svc, f)
	}
}

// ListMissionsByStatusHandler handles GET /api/v1/missions/status/{status}
func ListMissionsByStatusHandler(svc MissionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		status, err := parseEnum[constants.MissionStatus]("status", chi.URLParam(r, "status"))
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		page, err := parsePage(r)
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		listMissions(w, r, initTime, svc, repositories.MissionFilter{Status: &status, Page: page})
	}
}

// ListMissionsByCategoryHandler handles GET /api/v1/missions/category/{category}
func ListMissionsByCategoryHandler(svc MissionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		category, err := parseEnum[constants.CargoCategory]("category", chi.URLParam(r, "category"))
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		page, err := parsePage(r)
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		listMissions(w, r, initTime, svc, repositories.MissionFilter{Category: &category, Page: page})
	}
}

func listMissions(w http.ResponseWriter, r *http.Request, initTime time.Time, svc MissionService, f repositories.MissionFilter) {
	missions, err := svc.List(r.Context(), f)
	if err != nil {
		respondServiceError(w, r, initTime, err)
		return
	}
	common.RespondSuccess(w, initTime, "Missions fetched", dtos.NewMissionResponses(missions))
}

func missionFilter(r *http.Request) (repositories.MissionFilter, error) {
	var (
		f   repositories.MissionFilter
		err error
	)

	if f.Page, err = parsePage(r); err != nil {
		return f, err
	}
	if f.Status, err = queryEnum[constants.MissionStatus](r, "status"); err != nil {
		return f, err
	}
	if f.Category, err = queryEnum[constants.CargoCategory](r, "category"); err != nil {
		return f, err
	}
	if f.RiskLevel, err = queryRiskLevel(r, "risk_level"); err != nil {
		return f, err
	}
	if f.DroneID, err = queryID(r, "drone_id"); err != nil {
		return f, err
	}
	if f.ZoneID, err = queryID(r, "zone_id"); err != nil {
		return f, err
	}
	return f, nil
}

// GetMissionHandler handles GET /api/v1/missions/{id}
func GetMissionHandler(svc MissionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		m, err := svc.Get(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Mission fetched", dtos.NewMissionResponse(m))
	}
}

// UpdateMissionHandler handles PATCH /api/v1/missions/{id}
func UpdateMissionHandler(svc MissionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		var req dtos.UpdateMissionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		m, err := svc.Update(r.Context(), id, req)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Mission updated", dtos.NewMissionResponse(m))
	}
}

// DeleteMissionHandler handles DELETE /api/v1/missions/{id}
func DeleteMissionHandler(svc MissionService) http.HandlerFunc {
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

// MissionHistoryHandler handles GET /api/v1/missions/{id}/history
func MissionHistoryHandler(svc MissionService) http.HandlerFunc {
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

		records, err := svc.History(r.Context(), id, page)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Mission history fetched", dtos.NewHistoryResponses(records))
	}
}
