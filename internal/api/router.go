// Package api exposes the HTTP surface under /api.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/models"
	"qbit-backend/internal/services/auth"
	"qbit-backend/internal/services/pricemonitor"
	"qbit-backend/internal/store"
)

// Searcher runs a shopping search.
type Searcher interface {
	Search(ctx context.Context, query models.SearchQuery) (models.SearchResult, error)
}

// ChatResponder continues a chat conversation.
type ChatResponder interface {
	GenerateReply(ctx context.Context, history models.ChatHistory, message string) (string, models.ChatHistory, error)
}

// Notifier delivers a report status email.
type Notifier interface {
	Send(ctx context.Context, recipient string, p models.NotificationPayload) error
}

// ReadinessCheck is a dependency probed by /health/ready.
type ReadinessCheck interface {
	Name() string
	Ping(ctx context.Context) error
}

// Dependencies wires the handlers. Search, Chat and Prices are nil when their provider key is missing.
type Dependencies struct {
	Logger      logger.Logger
	CORSOrigins []string
	Store       *store.Store
	Auth        *auth.Service
	Search      Searcher
	Chat        ChatResponder
	Notifier    Notifier
	Prices      *pricemonitor.Service
	Checks      []ReadinessCheck
}

func NewRouter(deps Dependencies) *mux.Router {
	h := newHandler(deps)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(h.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)

	router.Use(
		recoveryMiddleware(deps.Logger),
		corsMiddleware(deps.CORSOrigins),
		requestLogger(deps.Logger),
		metricsMiddleware,
	)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	route := func(path string, fn http.HandlerFunc, method string) {
		api.HandleFunc(path, fn).Methods(method, http.MethodOptions)
	}

	// Health
	route("/health", h.Health, http.MethodGet)
	route("/health/ready", h.Ready, http.MethodGet)

	// Auth
	route("/login", h.Login, http.MethodPost)
	route("/logout", h.Logout, http.MethodPost)
	route("/me", h.Me, http.MethodGet)

	// Registration and staff management
	route("/submit-form", h.SubmitForm, http.MethodPost)
	route("/users", h.ListUsers, http.MethodGet)
	route("/users", h.CreateUser, http.MethodPost)
	route("/users/{id:[0-9]+}", h.UpdateUser, http.MethodPut)
	route("/users/{id:[0-9]+}", h.DeleteUser, http.MethodDelete)
	route("/users/{id:[0-9]+}/toggle", h.ToggleUser, http.MethodPatch)

	// Report requests
	route("/report-requests", h.ListReports, http.MethodGet)
	route("/report-requests", h.CreateReport, http.MethodPost)
	route("/report-requests/{requestId}/assign", h.AssignReport, http.MethodPatch)

	// Providers
	route("/search", h.Search, http.MethodPost)
	route("/chat", h.Chat, http.MethodPost)
	route("/send-email", h.SendEmail, http.MethodPost)

	// Price monitor
	route("/price-monitor/scan", h.Scan, http.MethodPost)
	route("/price-monitor/compare", h.Compare, http.MethodPost)
	route("/price-monitor/export", h.Export, http.MethodPost)
	route("/price-monitor/history", h.History, http.MethodGet)

	return router
}
