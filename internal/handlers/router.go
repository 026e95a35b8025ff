package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router bundles the handlers served by the API
type Router struct {
	Middleware *Middleware
	Health     *HealthHandler
	Items      *ItemHandler
	Activity   *ActivityHandler
	Streaks    *StreakHandler
	Profiles   *ProfileHandler
	Stats      *StatsHandler
	Gatherer   prometheus.Gatherer
}

// Handler builds the chi route tree
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.Recoverer)
	r.Use(rt.Middleware.Logging)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", rt.Health.Healthz)
	if rt.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(rt.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(rt.Middleware.RequireAuth)
		r.Use(rt.Middleware.RateLimit)

		r.Route("/items", func(r chi.Router) {
			r.Post("/", rt.Items.CreateItem)
			r.Get("/", rt.Items.ListItems)
			r.Get("/{id}", rt.Items.GetItem)
			r.Delete("/{id}", rt.Items.DeleteItem)
			r.Post("/{id}/review", rt.Items.Review)
			r.Post("/{id}/archive", rt.Items.Archive)
			r.Post("/{id}/unarchive", rt.Items.Unarchive)
		})

		r.Post("/activity", rt.Activity.Record)
		r.Get("/activity", rt.Activity.History)
		r.Get("/activity/today", rt.Activity.Today)

		r.Get("/streak", rt.Streaks.GetStreak)
		r.Post("/streak/freeze", rt.Streaks.UseFreeze)
		r.Post("/streak/milestones", rt.Streaks.ClaimMilestones)

		r.Get("/priorities", rt.Stats.Priorities)
		r.Get("/stats/overview", rt.Stats.Overview)

		r.Get("/profile", rt.Profiles.GetProfile)
		r.Put("/profile", rt.Profiles.UpdateProfile)
	})

	return r
}
