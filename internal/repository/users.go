// Package repository provides persistence implementations for the
// authentication service.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/dkoval/authkit/models"
)

// Account states stored in the users.status column.
const (
	StateActive      = "active"
	StateDeactivated = "deactivated"
	StateSuspended   = "suspended"
	StateDisabled    = "disabled"
)

// UserRecord is a row of the users table.
type UserRecord struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the login name chosen by the user.
	Username string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// Status is one of the State* account states.
	Status string
	// TOTPSecret enables the one-time-passcode step when set.
	TOTPSecret sql.NullString
	// FailedAttempts counts consecutive failed logins.
	FailedAttempts int
	// LockedUntil is the lockout expiry as a unix timestamp.
	LockedUntil sql.NullInt64
	// PasswordChangedAt is when the password was last set, unix seconds.
	PasswordChangedAt int64
	// AccessStartMinute and AccessEndMinute bound the allowed login
	// window in minutes from midnight. Both null means unrestricted.
	AccessStartMinute sql.NullInt64
	AccessEndMinute   sql.NullInt64
	DisplayName       sql.NullString
	Contact           sql.NullString
	Language          sql.NullString
	DateFormat        sql.NullString
	TimeFormat        sql.NullString
	Gender            sql.NullString
	ImageURL          sql.NullString
}

// PostgresUserRepository implements user persistence using a PostgreSQL
// database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

const userColumns = `id, username, password_hash, status, totp_secret,
       failed_attempts, locked_until, password_changed_at,
       access_start_minute, access_end_minute,
       display_name, contact, language, date_format, time_format, gender, image_url`

// FindByUsername returns the user with the given username, or nil when
// no such user exists.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*UserRecord, error) {
	var rec UserRecord
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	).Scan(
		&rec.ID, &rec.Username, &rec.PasswordHash, &rec.Status, &rec.TOTPSecret,
		&rec.FailedAttempts, &rec.LockedUntil, &rec.PasswordChangedAt,
		&rec.AccessStartMinute, &rec.AccessEndMinute,
		&rec.DisplayName, &rec.Contact, &rec.Language, &rec.DateFormat,
		&rec.TimeFormat, &rec.Gender, &rec.ImageURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &rec, nil
}

// CreateUser inserts a new user row.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, rec UserRecord) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password_hash, status, totp_secret, password_changed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Username, rec.PasswordHash, rec.Status, rec.TOTPSecret, rec.PasswordChangedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// RecordFailedAttempt increments the user's failure counter and returns
// the new count.
func (r *PostgresUserRepository) RecordFailedAttempt(ctx context.Context, username string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(
		ctx,
		`UPDATE users SET failed_attempts = failed_attempts + 1
		  WHERE username = $1
		 RETURNING failed_attempts`,
		username,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("record failed attempt: %w", err)
	}
	return count, nil
}

// LockUser sets the user's lockout expiry.
func (r *PostgresUserRepository) LockUser(ctx context.Context, username string, until int64) error {
	_, err := r.DB.ExecContext(
		ctx,
		`UPDATE users SET locked_until = $2 WHERE username = $1`,
		username, until,
	)
	if err != nil {
		return fmt.Errorf("lock user: %w", err)
	}
	return nil
}

// ResetFailedAttempts clears the failure counter and any lockout.
func (r *PostgresUserRepository) ResetFailedAttempts(ctx context.Context, username string) error {
	_, err := r.DB.ExecContext(
		ctx,
		`UPDATE users SET failed_attempts = 0, locked_until = NULL WHERE username = $1`,
		username,
	)
	if err != nil {
		return fmt.Errorf("reset failed attempts: %w", err)
	}
	return nil
}

// Reactivate moves a deactivated account back to the active state.
func (r *PostgresUserRepository) Reactivate(ctx context.Context, username string) error {
	_, err := r.DB.ExecContext(
		ctx,
		`UPDATE users SET status = $2 WHERE username = $1`,
		username, StateActive,
	)
	if err != nil {
		return fmt.Errorf("reactivate user: %w", err)
	}
	return nil
}

// Roles returns the role names assigned to the user.
func (r *PostgresUserRepository) Roles(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return roles, nil
}

// privilegeRow is a flat privilege row before tree assembly.
type privilegeRow struct {
	privilege models.Privilege
	parentID  sql.NullString
}

// Privileges returns the user's capability tree. Rows are fetched flat
// and assembled by parent reference; siblings are ordered by sequence.
func (r *PostgresUserRepository) Privileges(ctx context.Context, userID string) ([]models.Privilege, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT p.id, p.parent_id, p.name, p.resource, p.path, p.icon, p.sequence
		   FROM privileges p
		   JOIN user_privileges up ON up.privilege_id = p.id
		  WHERE up.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query privileges: %w", err)
	}
	defer rows.Close()

	var flat []privilegeRow
	for rows.Next() {
		var row privilegeRow
		var resource, path, icon sql.NullString
		if err := rows.Scan(
			&row.privilege.ID, &row.parentID, &row.privilege.Name,
			&resource, &path, &icon, &row.privilege.Sequence,
		); err != nil {
			return nil, fmt.Errorf("scan privilege: %w", err)
		}
		row.privilege.Resource = resource.String
		row.privilege.Path = path.String
		row.privilege.Icon = icon.String
		flat = append(flat, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate privileges: %w", err)
	}
	return buildPrivilegeTree(flat), nil
}

// buildPrivilegeTree nests children under their parents and sorts every
// sibling group by sequence. Rows whose parent is absent from the set
// are treated as roots.
func buildPrivilegeTree(flat []privilegeRow) []models.Privilege {
	byID := make(map[string]bool, len(flat))
	for _, row := range flat {
		byID[row.privilege.ID] = true
	}

	children := make(map[string][]privilegeRow)
	var roots []privilegeRow
	for _, row := range flat {
		if row.parentID.Valid && byID[row.parentID.String] {
			children[row.parentID.String] = append(children[row.parentID.String], row)
		} else {
			roots = append(roots, row)
		}
	}

	var build func(rows []privilegeRow) []models.Privilege
	build = func(rows []privilegeRow) []models.Privilege {
		if len(rows) == 0 {
			return nil
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].privilege.Sequence < rows[j].privilege.Sequence
		})
		out := make([]models.Privilege, 0, len(rows))
		for _, row := range rows {
			p := row.privilege
			p.Children = build(children[p.ID])
			out = append(out, p)
		}
		return out
	}
	return build(roots)
}
