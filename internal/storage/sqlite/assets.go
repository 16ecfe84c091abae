package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rapamazonia/assetregistry/internal/models"
	"github.com/rapamazonia/assetregistry/internal/scope"
	"github.com/rapamazonia/assetregistry/internal/storage"
)

// CreateAsset persists a new asset and populates its ID.
func (s *SQLiteStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if asset.Status == "" {
		asset.Status = models.StatusActive
	}
	if asset.RegisteredAt.IsZero() {
		asset.RegisteredAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO assets (code, name, description, status, registered_at,
		                    category_id, location_id, custodian_id, committee_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.Code,
		asset.Name,
		asset.Description,
		string(asset.Status),
		asset.RegisteredAt.Unix(),
		asset.CategoryID,
		asset.LocationID,
		asset.CustodianID,
		asset.CommitteeID,
	)
	if err != nil {
		if isUniqueViolation(err, "assets.code") {
			return storage.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create asset: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		// The row is committed; an id fetch failure must surface, not be
		// swallowed.
		return fmt.Errorf("failed to fetch generated asset id: %w", err)
	}
	asset.ID = id
	return nil
}

// GetAsset retrieves one asset by id.
func (s *SQLiteStore) GetAsset(ctx context.Context, id int64) (*models.Asset, error) {
	a := &models.Asset{}
	var status string
	var registeredAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, name, description, status, registered_at,
		       category_id, location_id, custodian_id, committee_id
		FROM assets WHERE id = ?`, id,
	).Scan(&a.ID, &a.Code, &a.Name, &a.Description, &status, &registeredAt,
		&a.CategoryID, &a.LocationID, &a.CustodianID, &a.CommitteeID)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	a.Status = models.AssetStatus(status)
	a.RegisteredAt = time.Unix(registeredAt, 0)
	return a, nil
}

// ListAssets returns the listing rows visible under the scope filter,
// optionally narrowed by a code/name search term, newest first.
func (s *SQLiteStore) ListAssets(ctx context.Context, f scope.Filter, search string) ([]models.AssetRow, error) {
	query := `
		SELECT
		  a.id, a.code, a.name, a.status, a.registered_at,
		  COALESCE(c.name, ''),
		  COALESCE(l.name, ''),
		  COALESCE(cu.name, ''),
		  co.name
		FROM assets a
		LEFT JOIN categories c ON c.id = a.category_id
		LEFT JOIN locations l ON l.id = a.location_id
		LEFT JOIN custodians cu ON cu.id = a.custodian_id
		JOIN committees co ON co.id = a.committee_id`

	where, args := f.SQL("a.committee_id")
	clauses := []string{}
	if where != "" {
		clauses = append(clauses, where)
	}
	if search != "" {
		clauses = append(clauses, "(a.code LIKE ? OR a.name LIKE ?)")
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY a.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []models.AssetRow
	for rows.Next() {
		var r models.AssetRow
		var status string
		var registeredAt int64
		if err := rows.Scan(&r.ID, &r.Code, &r.Name, &status, &registeredAt,
			&r.Category, &r.Location, &r.Custodian, &r.Committee); err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		r.Status = models.AssetStatus(status)
		r.RegisteredAt = time.Unix(registeredAt, 0)
		assets = append(assets, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assets: %w", err)
	}

	return assets, nil
}

// SummarizeAssets aggregates the dashboard counts under the scope filter.
func (s *SQLiteStore) SummarizeAssets(ctx context.Context, f scope.Filter) (*models.AssetSummary, error) {
	where, args := f.SQL("committee_id")
	if where != "" {
		where = " WHERE " + where
	}

	sum := &models.AssetSummary{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
		  COUNT(*),
		  COALESCE(SUM(status = 'ACTIVE'), 0),
		  COALESCE(SUM(status = 'REPAIR'), 0),
		  COALESCE(SUM(status = 'RETIRED'), 0),
		  COALESCE(SUM(custodian_id IS NULL), 0),
		  COALESCE(SUM(location_id IS NULL), 0),
		  COALESCE(SUM(category_id IS NULL), 0)
		FROM assets`+where, args...,
	).Scan(&sum.Total, &sum.Active, &sum.Repair, &sum.Retired,
		&sum.NoCustodian, &sum.NoLocation, &sum.NoCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize assets: %w", err)
	}

	return sum, nil
}

// RetireAsset flips the asset to RETIRED and appends the audit movement in
// the same transaction.
func (s *SQLiteStore) RetireAsset(ctx context.Context, id int64, detail string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE assets SET status = ? WHERE id = ?",
		string(models.StatusRetired), id,
	)
	if err != nil {
		return fmt.Errorf("failed to retire asset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count retired rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO movements (asset_id, kind, detail, at) VALUES (?, ?, ?, ?)",
		id, string(models.MovementStatusChange), detail, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("failed to record movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit retirement: %w", err)
	}
	return nil
}

// DeleteAsset removes the asset and its movements in one transaction.
// Movements go first so the asset row is never left referenced.
func (s *SQLiteStore) DeleteAsset(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM movements WHERE asset_id = ?", id,
	); err != nil {
		return fmt.Errorf("failed to delete asset movements: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion: %w", err)
	}
	return nil
}
