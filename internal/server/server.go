// Package server wires the HTTP JSON API: routing, request decoding and
// the mapping from service errors to status codes.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rapamazonia/assetregistry/internal/auth"
	"github.com/rapamazonia/assetregistry/internal/middleware"
	"github.com/rapamazonia/assetregistry/internal/service"
)

// Server holds the services behind the HTTP API.
type Server struct {
	authService      *service.AuthService
	assetService     *service.AssetService
	userService      *service.UserService
	committeeService *service.CommitteeService
	jwtManager       *auth.JWTManager
}

// New creates a Server.
func New(
	authService *service.AuthService,
	assetService *service.AssetService,
	userService *service.UserService,
	committeeService *service.CommitteeService,
	jwtManager *auth.JWTManager,
) *Server {
	return &Server{
		authService:      authService,
		assetService:     assetService,
		userService:      userService,
		committeeService: committeeService,
		jwtManager:       jwtManager,
	}
}

// Handler builds the full route table wrapped in logging, metrics and CORS
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(s.jwtManager)
	admin := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireAdmin(h))
	}

	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.Handle("GET /api/committees", authed(http.HandlerFunc(s.handleListCommittees)))

	mux.Handle("GET /api/assets", authed(http.HandlerFunc(s.handleListAssets)))
	mux.Handle("POST /api/assets", authed(http.HandlerFunc(s.handleRegisterAsset)))
	mux.Handle("GET /api/summary", authed(http.HandlerFunc(s.handleSummary)))
	mux.Handle("POST /api/assets/{id}/retire", authed(http.HandlerFunc(s.handleRetireAsset)))
	mux.Handle("GET /api/assets/{id}/movements", authed(http.HandlerFunc(s.handleListMovements)))
	mux.Handle("DELETE /api/assets/{id}", admin(s.handleDeleteAsset))

	mux.Handle("GET /api/users", authed(http.HandlerFunc(s.handleListUsers)))
	mux.Handle("POST /api/users", admin(s.handleCreateUser))
	mux.Handle("DELETE /api/users/{id}", admin(s.handleDeleteUser))
	mux.Handle("POST /api/users/{id}/active", admin(s.handleSetUserActive))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.Logging(middleware.Metrics(middleware.CORS(mux)))
}
