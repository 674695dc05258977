package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// defaultAllowedOrigins are the local frontend dev servers.
var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:9002",
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	authHandler *AuthHandler,
	subscriptionHandler *SubscriptionHandler,
	toolHandler *ToolHandler,
	galleryHandler *GalleryHandler,
	adminHandler *AdminHandler,
	authMiddleware func(http.Handler) http.Handler,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()
	router.Use(MetricsMiddleware)

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"creative-tools-api"}`))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Admin routes authenticate with X-Admin-Secret instead of a user token.
	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/subscriptions/{id}/plan", adminHandler.SetPlan).Methods(http.MethodPut)
	admin.HandleFunc("/subscriptions/{id}/reset", adminHandler.ResetUsage).Methods(http.MethodPost)

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/auth/validate", authHandler.ValidateToken).Methods(http.MethodGet)
	protected.HandleFunc("/subscription", subscriptionHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/tools/{tool}", toolHandler.Invoke).Methods(http.MethodPost)
	protected.HandleFunc("/gallery", galleryHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/gallery/{id}", galleryHandler.Delete).Methods(http.MethodDelete)

	if len(allowedOrigins) == 0 {
		allowedOrigins = defaultAllowedOrigins
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Admin-Secret",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
