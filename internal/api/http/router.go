package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Requests      *RequestHandler
	Donors        *DonorHandler
	Notifications *NotificationHandler
	Health        *HealthHandler
	Auth          *AuthMiddleware
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(MetricsMiddleware)

	r.HandleFunc("/health", h.Health.Check).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.Auth.Handler)

	api.HandleFunc("/requests", h.Requests.Create).Methods(http.MethodPost)
	api.HandleFunc("/requests", h.Requests.List).Methods(http.MethodGet)
	api.HandleFunc("/requests/{id}", h.Requests.Get).Methods(http.MethodGet)
	api.HandleFunc("/requests/{id}/responses", h.Requests.Respond).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}/complete", h.Requests.Complete).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}/cancel", h.Requests.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/stats", h.Requests.Statistics).Methods(http.MethodGet)

	api.HandleFunc("/donors/search", h.Donors.Search).Methods(http.MethodGet)
	api.HandleFunc("/donors/availability", h.Donors.UpdateAvailability).Methods(http.MethodPut)
	api.HandleFunc("/profile", h.Donors.Profile).Methods(http.MethodGet)

	api.HandleFunc("/notifications", h.Notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", h.Notifications.MarkAsRead).Methods(http.MethodPost)

	return r
}
