package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rapamazonia/assetregistry/internal/auth"
	"github.com/rapamazonia/assetregistry/internal/middleware"
	"github.com/rapamazonia/assetregistry/internal/service"
	"github.com/rapamazonia/assetregistry/internal/storage"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := s.authService.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCommittees(w http.ResponseWriter, r *http.Request) {
	committees, err := s.committeeService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, committees)
}

func (s *Server) handleRegisterAsset(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())
	var req service.RegisterAssetRequest
	if !decode(w, r, &req) {
		return
	}

	asset, err := s.assetService.Register(r.Context(), caller, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())

	resp, err := s.assetService.List(r.Context(), caller, scopeParam(r), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())

	resp, err := s.assetService.Summary(r.Context(), caller, scopeParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRetireAsset(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.assetService.Retire(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	movements, err := s.assetService.Movements(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movements)
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.assetService.Delete(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := s.userService.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.userService.Delete(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetUserActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if !decode(w, r, &req) {
		return
	}

	if err := s.userService.SetActive(r.Context(), id, req.Active); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// scopeParam reads the requested viewing scope; 0/absent means "all".
// Only admins actually widen to "all" — the resolver pins operators to
// their committee regardless of this value.
func scopeParam(r *http.Request) int64 {
	v := r.URL.Query().Get("scope")
	if v == "" {
		return 0
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service and storage errors to HTTP statuses. Unmapped
// errors become opaque 500s so driver details never leak.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInactiveAccount):
		status, msg = http.StatusUnauthorized, "invalid username or password, or inactive account"
	case errors.Is(err, storage.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, storage.ErrDuplicateCode):
		status, msg = http.StatusConflict, "that code already exists; use another or leave it empty"
	case errors.Is(err, storage.ErrDuplicateUsername):
		status, msg = http.StatusConflict, "that username already exists"
	case errors.Is(err, service.ErrSelfDelete),
		errors.Is(err, service.ErrAdminDelete):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrCommitteeRequired),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, auth.ErrWeakPassword):
		status, msg = http.StatusBadRequest, err.Error()
	}

	writeJSON(w, status, map[string]string{"error": msg})
}
