package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rapamazonia/assetregistry/internal/models"
)

// ListMovements returns an asset's audit trail, newest first.
func (s *SQLiteStore) ListMovements(ctx context.Context, assetID int64) ([]models.Movement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, asset_id, kind, detail, at
		FROM movements
		WHERE asset_id = ?
		ORDER BY id DESC`, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var movements []models.Movement
	for rows.Next() {
		var m models.Movement
		var kind string
		var at int64
		if err := rows.Scan(&m.ID, &m.AssetID, &kind, &m.Detail, &at); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		m.Kind = models.MovementKind(kind)
		m.At = time.Unix(at, 0)
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movements: %w", err)
	}

	return movements, nil
}
