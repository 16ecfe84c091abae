package sqlite

import (
	"context"
	"fmt"

	"github.com/rapamazonia/assetregistry/internal/models"
)

// SeedUser is a bootstrap account. Committee is a committee name resolved
// to an id at seed time; empty means no assignment (global-scope admin).
type SeedUser struct {
	Name         string
	Username     string
	PasswordHash string
	Role         models.Role
	Committee    string
}

// Seed is the first-run bootstrap data.
type Seed struct {
	Committees []string
	Categories []string
	Locations  []string
	Custodians []string
	Users      []SeedUser
}

// Bootstrap populates an empty database. Committees are only seeded when
// the table has no rows at all; catalog entries and users are inserted
// if absent, so Bootstrap is safe to run on every startup.
func (s *SQLiteStore) Bootstrap(ctx context.Context, seed Seed) error {
	var total int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM committees",
	).Scan(&total); err != nil {
		return fmt.Errorf("failed to count committees: %w", err)
	}

	if total == 0 {
		for _, name := range seed.Committees {
			if err := s.EnsureCommittee(ctx, name); err != nil {
				return err
			}
		}
	}

	catalogs := []struct {
		table string
		names []string
	}{
		{"categories", seed.Categories},
		{"locations", seed.Locations},
		{"custodians", seed.Custodians},
	}
	for _, cat := range catalogs {
		for _, name := range cat.names {
			if _, err := s.db.ExecContext(ctx,
				fmt.Sprintf("INSERT OR IGNORE INTO %s (name) VALUES (?)", cat.table),
				name,
			); err != nil {
				return fmt.Errorf("failed to seed %s: %w", cat.table, err)
			}
		}
	}

	for _, su := range seed.Users {
		var committeeID *int64
		if su.Committee != "" {
			var id int64
			err := s.db.QueryRowContext(ctx,
				"SELECT id FROM committees WHERE name = ?", su.Committee,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("failed to resolve seed committee %q: %w", su.Committee, err)
			}
			committeeID = &id
		}

		if _, err := s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO users (name, username, password_hash, role, committee_id, active)
			VALUES (?, ?, ?, ?, ?, 1)`,
			su.Name, su.Username, su.PasswordHash, string(su.Role), committeeID,
		); err != nil {
			return fmt.Errorf("failed to seed user %q: %w", su.Username, err)
		}
	}

	return nil
}
