package service

import (
	"context"
	"log/slog"

	"github.com/rapamazonia/assetregistry/internal/models"
	"github.com/rapamazonia/assetregistry/internal/storage"
)

// CommitteeService exposes the committee catalog, sorted by name. It backs
// both the scope labeling and the registration screens' committee pickers.
type CommitteeService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewCommitteeService creates a new CommitteeService.
func NewCommitteeService(store storage.Store, logger *slog.Logger) *CommitteeService {
	return &CommitteeService{store: store, logger: logger}
}

// List returns all committees ordered by name.
func (s *CommitteeService) List(ctx context.Context) ([]models.Committee, error) {
	return s.store.ListCommittees(ctx)
}
