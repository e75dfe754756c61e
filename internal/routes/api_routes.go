package routes

import (
	"skyrelief/dispatch/internal/api"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
func RegisterAPIRoutes(r chi.Router, svc *api.Services) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/missions", func(m chi.Router) {
			m.Post("/", api.CreateMissionHandler(svc.Missions))
			m.Get("/", api.ListMissionsHandler(svc.Missions))
			m.Get("/status/{status}", api.ListMissionsByStatusHandler(svc.Missions))
			m.Get("/category/{category}", api.ListMissionsByCategoryHandler(svc.Missions))
			m.Get("/{id}", api.GetMissionHandler(svc.Missions))
			m.Patch("/{id}", api.UpdateMissionHandler(svc.Missions))
			m.Delete("/{id}", api.DeleteMissionHandler(svc.Missions))
			m.Get("/{id}/history", api.MissionHistoryHandler(svc.Missions))
		})

		v1.Route("/drones", func(d chi.Router) {
			d.Post("/", api.CreateDroneHandler(svc.Drones))
			d.Get("/", api.ListDronesHandler(svc.Drones))
			d.Get("/available", api.AvailableDronesHandler(svc.Drones))
			d.Get("/{id}", api.GetDroneHandler(svc.Drones))
			d.Patch("/{id}", api.UpdateDroneHandler(svc.Drones))
			d.Delete("/{id}", api.DeleteDroneHandler(svc.Drones))
			d.Get("/{id}/history", api.DroneHistoryHandler(svc.Drones))
		})

		v1.Route("/zones", func(z chi.Router) {
			z.Post("/", api.CreateZoneHandler(svc.Zones))
			z.Get("/", api.ListZonesHandler(svc.Zones))
			z.Get("/risk/{level}", api.ZonesByRiskHandler(svc.Zones))
			z.Get("/{id}", api.GetZoneHandler(svc.Zones))
			z.Patch("/{id}", api.UpdateZoneHandler(svc.Zones))
			z.Delete("/{id}", api.DeleteZoneHandler(svc.Zones))
		})

		v1.Route("/history", func(h chi.Router) {
			h.Post("/", api.CreateHistoryHandler(svc.History))
			h.Get("/", api.ListHistoryHandler(svc.History))
			h.Get("/mission/{id}", api.HistoryByMissionHandler(svc.History))
			h.Get("/drone/{id}", api.HistoryByDroneHandler(svc.History))
			h.Get("/{id}", api.GetHistoryHandler(svc.History))
			h.Patch("/{id}", api.UpdateHistoryHandler(svc.History))
			h.Delete("/{id}", api.DeleteHistoryHandler(svc.History))
		})

		v1.Get("/stats", api.FleetStatsHandler(svc.Stats))
	})
}
