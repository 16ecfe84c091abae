// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/rapamazonia/assetregistry/internal/models"
	"github.com/rapamazonia/assetregistry/internal/scope"
)

// Sentinel errors returned by Store implementations. Services map these to
// user-facing messages instead of propagating driver errors.
var (
	// ErrNotFound indicates the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateCode indicates an asset code collided with an existing one.
	ErrDuplicateCode = errors.New("asset code already exists")

	// ErrDuplicateUsername indicates the login username is taken.
	ErrDuplicateUsername = errors.New("username already exists")
)

// Store defines the persistence operations used by the services and the
// reconciler. This abstraction allows swapping storage backends (SQLite,
// PostgreSQL, etc.) without changing the callers.
type Store interface {
	// ListCommittees returns all committees ordered by name.
	ListCommittees(ctx context.Context) ([]models.Committee, error)

	// GetCommittee retrieves one committee, or ErrNotFound.
	GetCommittee(ctx context.Context, id int64) (*models.Committee, error)

	// EnsureCommittee inserts a committee with the exact given name if no
	// row with that name exists. Matching is by exact name; normalization
	// is the reconciler's concern.
	EnsureCommittee(ctx context.Context, name string) error

	// MergeCommitteeGroup repoints every asset and user referencing one of
	// the duplicate committee ids to the canonical id, then deletes the
	// duplicate rows, all in a single transaction. Returns the number of
	// repointed rows. A failure rolls the whole group back.
	MergeCommitteeGroup(ctx context.Context, canonicalID int64, duplicates []int64) (repointed int64, err error)

	// CountDanglingRefs counts assets and users whose committee id does
	// not reference an existing committee row.
	CountDanglingRefs(ctx context.Context) (int64, error)

	// CreateAsset persists a new asset and populates its ID.
	CreateAsset(ctx context.Context, asset *models.Asset) error

	// GetAsset retrieves one asset, or ErrNotFound.
	GetAsset(ctx context.Context, id int64) (*models.Asset, error)

	// ListAssets returns the listing rows visible under the given scope
	// filter, optionally narrowed by a code/name search term, newest first.
	ListAssets(ctx context.Context, f scope.Filter, search string) ([]models.AssetRow, error)

	// SummarizeAssets aggregates the dashboard counts under the scope filter.
	SummarizeAssets(ctx context.Context, f scope.Filter) (*models.AssetSummary, error)

	// RetireAsset flips the asset to RETIRED and appends the audit
	// movement in the same transaction.
	RetireAsset(ctx context.Context, id int64, detail string) error

	// DeleteAsset removes the asset and its movements in one transaction.
	DeleteAsset(ctx context.Context, id int64) error

	// ListMovements returns an asset's audit trail, newest first.
	ListMovements(ctx context.Context, assetID int64) ([]models.Movement, error)

	// CreateUser persists a new user and populates its ID.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves a user with the committee name joined
	// in. Returns nil, nil when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser retrieves a user by id, or ErrNotFound.
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// ListUsers returns all users with committee names, newest first.
	ListUsers(ctx context.Context) ([]models.User, error)

	// DeleteUser removes a user row.
	DeleteUser(ctx context.Context, id int64) error

	// SetUserActive flips the activation flag.
	SetUserActive(ctx context.Context, id int64, active bool) error

	// Close releases any resources held by the store.
	Close() error
}
