package router

import (
	"net/http"

	"github.com/mvcarvalho/pdf-podcast-api/internal/config"
	"github.com/mvcarvalho/pdf-podcast-api/internal/handlers"
	"github.com/mvcarvalho/pdf-podcast-api/internal/middleware"
	"github.com/mvcarvalho/pdf-podcast-api/internal/services"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"

	"github.com/gorilla/mux"
)

func NewRouter(podcastService services.PodcastService, cfg *config.Config, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	podcastHandler := handlers.NewPodcastHandler(podcastService, cfg.MaxFileSize, logger)

	// Routes
	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Podcast endpoints
	api.HandleFunc("/podcasts/generate", podcastHandler.GeneratePodcast).
		Methods(http.MethodPost, http.MethodOptions)

	return r
}
