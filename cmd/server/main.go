package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"relay/internal/events"
	"relay/internal/relay"
	"relay/internal/routers"
	"relay/internal/session"
	"relay/internal/utils"
)

var (
	listenAndServe = http.ListenAndServe
	exitFunc       = func(err error) { log.Fatal(err) }
)

func main() {
	if err := run(context.Background()); err != nil {
		exitFunc(err)
	}
}

func run(_ context.Context) error {
	logger := utils.NewLogger()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "redis:6379"
	}

	publisher := events.NewPublisher(redisAddr)
	defer publisher.Close()

	hub := session.NewHub()
	registry := session.NewRegistry()
	router := relay.New(logger, hub, registry, publisher)

	corsAllow := splitCSV(os.Getenv("CORS_ALLOW"))
	if len(corsAllow) == 0 {
		corsAllow = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Mount("/", routers.New(logger, hub, router, corsAllow))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("relay listening", "addr", addr, "instanceId", publisher.InstanceID())
	return listenAndServe(addr, r)
}

func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
