package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rapamazonia/assetregistry/internal/models"
	"github.com/rapamazonia/assetregistry/internal/storage"
)

// ListCommittees returns all committees ordered by name.
func (s *SQLiteStore) ListCommittees(ctx context.Context) ([]models.Committee, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM committees ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list committees: %w", err)
	}
	defer rows.Close()

	var committees []models.Committee
	for rows.Next() {
		var c models.Committee
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan committee: %w", err)
		}
		committees = append(committees, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate committees: %w", err)
	}

	return committees, nil
}

// GetCommittee retrieves a committee by id.
func (s *SQLiteStore) GetCommittee(ctx context.Context, id int64) (*models.Committee, error) {
	c := &models.Committee{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name FROM committees WHERE id = ?", id,
	).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get committee: %w", err)
	}
	return c, nil
}

// EnsureCommittee inserts a committee with the exact given name unless a
// row with that name already exists.
func (s *SQLiteStore) EnsureCommittee(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO committees (name)
		 SELECT ? WHERE NOT EXISTS (SELECT 1 FROM committees WHERE name = ?)`,
		name, name,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure committee %q: %w", name, err)
	}
	return nil
}

// MergeCommitteeGroup repoints assets and users from the duplicate ids to
// the canonical id and deletes the duplicates, in one transaction.
// Repointing MUST complete for every dependent table before the deletion
// runs; on any failure the whole group rolls back.
func (s *SQLiteStore) MergeCommitteeGroup(ctx context.Context, canonicalID int64, duplicates []int64) (int64, error) {
	if len(duplicates) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	in := placeholders(len(duplicates))
	args := make([]any, 0, len(duplicates)+1)
	args = append(args, canonicalID)
	for _, id := range duplicates {
		args = append(args, id)
	}

	var repointed int64
	for _, table := range []string{"assets", "users"} {
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET committee_id = ? WHERE committee_id IN (%s)", table, in),
			args...,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to repoint %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to count repointed %s: %w", table, err)
		}
		repointed += n
	}

	delArgs := args[1:]
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM committees WHERE id IN (%s)", in),
		delArgs...,
	); err != nil {
		return 0, fmt.Errorf("failed to delete duplicate committees: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit merge: %w", err)
	}

	return repointed, nil
}

// CountDanglingRefs counts assets and users whose committee id does not
// reference an existing committee row.
func (s *SQLiteStore) CountDanglingRefs(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM assets a
		   WHERE a.committee_id NOT IN (SELECT id FROM committees))
		+ (SELECT COUNT(*) FROM users u
		   WHERE u.committee_id IS NOT NULL
		     AND u.committee_id NOT IN (SELECT id FROM committees))
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count dangling references: %w", err)
	}
	return n, nil
}
