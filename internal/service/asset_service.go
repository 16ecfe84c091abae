package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rapamazonia/assetregistry/internal/models"
	"github.com/rapamazonia/assetregistry/internal/scope"
	"github.com/rapamazonia/assetregistry/internal/storage"
)

// AssetService handles asset registration, listing and lifecycle.
// Every read and mutation goes through the scope resolver first.
type AssetService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewAssetService creates a new AssetService with the given storage backend.
func NewAssetService(store storage.Store, logger *slog.Logger) *AssetService {
	return &AssetService{store: store, logger: logger}
}

// directory builds the scope labeling directory from the current committee
// catalog.
func (s *AssetService) directory(ctx context.Context) (scope.NameMap, error) {
	committees, err := s.store.ListCommittees(ctx)
	if err != nil {
		return nil, err
	}
	dir := make(scope.NameMap, len(committees))
	for _, c := range committees {
		dir[c.ID] = c.Name
	}
	return dir, nil
}

// RegisterAssetRequest carries the registration form fields. CommitteeID
// is only honored for admins; operators always register into their own
// committee.
type RegisterAssetRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CommitteeID int64  `json:"committee_id"`
}

// Register creates a new asset. The owning committee is the caller's
// assignment for operators, or the explicitly chosen target for admins
// (selected from the full committee set, not filtered by scope).
func (s *AssetService) Register(ctx context.Context, caller *models.User, req *RegisterAssetRequest) (*models.Asset, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	status := models.StatusActive
	if req.Status != "" {
		status = models.AssetStatus(req.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
	}

	var committeeID int64
	if caller.Role == models.RoleAdmin {
		if req.CommitteeID == 0 {
			return nil, ErrCommitteeRequired
		}
		if _, err := s.store.GetCommittee(ctx, req.CommitteeID); err != nil {
			return nil, err
		}
		committeeID = req.CommitteeID
	} else {
		if caller.CommitteeID == nil {
			return nil, ErrCommitteeRequired
		}
		committeeID = *caller.CommitteeID
	}

	asset := &models.Asset{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Status:      status,
		CommitteeID: committeeID,
	}
	if code := strings.TrimSpace(req.Code); code != "" {
		asset.Code = &code
	}

	if err := s.store.CreateAsset(ctx, asset); err != nil {
		s.logger.Error("asset registration failed", "name", name, "error", err)
		return nil, err
	}

	s.logger.Info("asset registered",
		"asset_id", asset.ID,
		"committee_id", committeeID,
		"registered_by", caller.ID,
	)
	return asset, nil
}

// AssetListResponse is a scoped listing with its display label.
type AssetListResponse struct {
	Scope  string            `json:"scope"`
	Assets []models.AssetRow `json:"assets"`
}

// List returns the assets visible to the caller under the requested
// viewing scope, optionally filtered by a code/name search term.
func (s *AssetService) List(ctx context.Context, caller *models.User, requestedScope int64, search string) (*AssetListResponse, error) {
	dir, err := s.directory(ctx)
	if err != nil {
		return nil, err
	}

	f := scope.Resolve(caller, requestedScope, dir)
	assets, err := s.store.ListAssets(ctx, f, strings.TrimSpace(search))
	if err != nil {
		s.logger.Error("asset listing failed", "scope", f.Label(), "error", err)
		return nil, err
	}

	return &AssetListResponse{Scope: f.Label(), Assets: assets}, nil
}

// SummaryResponse is the scoped dashboard aggregate.
type SummaryResponse struct {
	Scope   string              `json:"scope"`
	Summary models.AssetSummary `json:"summary"`
}

// Summary aggregates the dashboard counts under the caller's scope.
func (s *AssetService) Summary(ctx context.Context, caller *models.User, requestedScope int64) (*SummaryResponse, error) {
	dir, err := s.directory(ctx)
	if err != nil {
		return nil, err
	}

	f := scope.Resolve(caller, requestedScope, dir)
	sum, err := s.store.SummarizeAssets(ctx, f)
	if err != nil {
		s.logger.Error("asset summary failed", "scope", f.Label(), "error", err)
		return nil, err
	}

	return &SummaryResponse{Scope: f.Label(), Summary: *sum}, nil
}

// Retire flips an asset to RETIRED and records the audit movement. Assets
// outside the caller's scope are reported as not found rather than
// revealed.
func (s *AssetService) Retire(ctx context.Context, caller *models.User, assetID int64) error {
	if err := s.checkVisible(ctx, caller, assetID); err != nil {
		return err
	}

	if err := s.store.RetireAsset(ctx, assetID, "marked RETIRED from listing"); err != nil {
		s.logger.Error("asset retirement failed", "asset_id", assetID, "error", err)
		return err
	}

	s.logger.Info("asset retired", "asset_id", assetID, "retired_by", caller.ID)
	return nil
}

// Delete permanently removes an asset and its audit trail. Admin only;
// the route enforces the role.
func (s *AssetService) Delete(ctx context.Context, caller *models.User, assetID int64) error {
	if err := s.store.DeleteAsset(ctx, assetID); err != nil {
		s.logger.Error("asset deletion failed", "asset_id", assetID, "error", err)
		return err
	}

	s.logger.Info("asset deleted", "asset_id", assetID, "deleted_by", caller.ID)
	return nil
}

// Movements returns an asset's audit trail, scope-checked like Retire.
func (s *AssetService) Movements(ctx context.Context, caller *models.User, assetID int64) ([]models.Movement, error) {
	if err := s.checkVisible(ctx, caller, assetID); err != nil {
		return nil, err
	}
	return s.store.ListMovements(ctx, assetID)
}

// checkVisible verifies the asset falls inside the caller's resolved
// scope. Operators get ErrNotFound for assets of other committees.
func (s *AssetService) checkVisible(ctx context.Context, caller *models.User, assetID int64) error {
	asset, err := s.store.GetAsset(ctx, assetID)
	if err != nil {
		return err
	}

	f := scope.Resolve(caller, scope.ScopeAll, scope.NameMap{})
	if id, restricted := f.CommitteeID(); restricted && asset.CommitteeID != id {
		return storage.ErrNotFound
	}
	return nil
}
