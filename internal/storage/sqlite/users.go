package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rapamazonia/assetregistry/internal/models"
	"github.com/rapamazonia/assetregistry/internal/storage"
)

const userColumns = `
	u.id, u.name, u.username, u.password_hash, u.role, u.committee_id,
	COALESCE(c.name, ''), u.active`

// scanUser reads one joined user row.
func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.PasswordHash, &role,
		&u.CommitteeID, &u.CommitteeName, &u.Active)
	if err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return u, nil
}

// CreateUser inserts a new user and populates its ID.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, username, password_hash, role, committee_id, active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.Name,
		user.Username,
		user.PasswordHash,
		string(user.Role),
		user.CommitteeID,
		user.Active,
	)
	if err != nil {
		if isUniqueViolation(err, "users.username") {
			return storage.ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to fetch generated user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetUserByUsername retrieves a user with the committee name joined in.
// Returns nil, nil when no such user exists.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		LEFT JOIN committees c ON c.id = u.committee_id
		WHERE u.username = ?`, username)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by id.
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		LEFT JOIN committees c ON c.id = u.committee_id
		WHERE u.id = ?`, id)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users with committee names, newest first.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		LEFT JOIN committees c ON c.id = u.committee_id
		ORDER BY u.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// DeleteUser removes a user row. The self/admin protection rules live in
// the service layer, before this runs.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetUserActive flips the activation flag.
func (s *SQLiteStore) SetUserActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET active = ? WHERE id = ?", active, id)
	if err != nil {
		return fmt.Errorf("failed to update user activation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count updated rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
