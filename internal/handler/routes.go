package handler

import (
	"net/http"

	"github.com/msomdec/skill-connect/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Upload routes
// are guarded by limiter.
func RegisterRoutes(mux *http.ServeMux, profiles *ProfileHandler, limiter *service.UploadLimiter) {
	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("GET /{$}", profiles.HandleHome)
	mux.HandleFunc("GET /profiles/search", profiles.HandleSearch)
	mux.Handle("POST /profiles", RateLimit(limiter, http.HandlerFunc(profiles.HandleCreate)))
	mux.Handle("POST /profiles/{id}/videos", RateLimit(limiter, http.HandlerFunc(profiles.HandleAddVideo)))
	mux.HandleFunc("GET /videos/{profileID}/{videoID}", profiles.HandleServeVideo)

	mux.HandleFunc("GET /api/profiles", profiles.HandleListProfiles)
	mux.HandleFunc("GET /api/videos", profiles.HandleListVideos)
}
