package api

import (
	"net/http"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/models/dtos"
)

// CreateDroneHandler handles POST /api/v1/drones
func CreateDroneHandler(svc DroneService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateDroneRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		d, err := svc.Create(r.Context(), req)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Drone registered", dtos.NewDroneResponse(d), http.StatusCreated)
	}
}

// ListDronesHandler handles GET /api/v1/drones
func ListDronesHandler(svc DroneService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		page, err := parsePage(r)
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}
		status, err := queryEnum[constants.DroneStatus](r, "status")
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		drones, err := svc.List(r.Context(), repositories.DroneFilter{Status: status, Page: page})
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Drones fetched", dtos.NewDroneResponses(drones))
	}
}

// AvailableDronesHandler handles GET /api/v1/drones/available
func AvailableDronesHandler(svc DroneService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		page, err := parsePage(r)
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		drones, err := svc.Available(r.Context(), page)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Available drones fetched", dtos.NewDroneResponses(drones))
	}
}

// GetDroneHandler handles GET /api/v1/drones/{id}
func GetDroneHandler(svc DroneService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		d, err := svc.Get(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Drone fetched", dtos.NewDroneResponse(d))
	}
}

// UpdateDroneHandler handles PATCH /api/v1/drones/{id}
func UpdateDroneHandler(svc DroneService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		var req dtos.UpdateDroneRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		d, err := svc.Update(r.Context(), id, req)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Drone updated", dtos.NewDroneResponse(d))
	}
}

// DeleteDroneHandler handles DELETE /api/v1/drones/{id}
func DeleteDroneHandler(svc DroneService) http.HandlerFunc {
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

// DroneHistoryHandler handles GET /api/v1/drones/{id}/history
func DroneHistoryHandler(svc DroneService) http.HandlerFunc {
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

		common.RespondSuccess(w, initTime, "Drone history fetched", dtos.NewHistoryResponses(records))
	}
}
