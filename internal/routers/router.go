package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"relay/internal/api"
	"relay/internal/metrics"
	"relay/internal/relay"
	"relay/internal/session"
	"relay/internal/utils"
)

func New(log *utils.Logger, hub *session.Hub, router *relay.Router, corsAllow []string) http.Handler {
	h := api.NewHandlers(log, hub, router)
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsAllow,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(metrics.Middleware("relay"))

	r.Get("/api/v1/healthz", h.Health)
	r.Get("/api/v1/rooms/{roomId}", h.RoomStatus)

	r.Get("/ws", h.RelayWS)

	r.Handle("/metrics", metrics.Handler())

	return r
}
