package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
	"github.com/smartsupplypro/inventory-api/internal/data/pgxutil"
	"github.com/smartsupplypro/inventory-api/internal/ports"
)

// UserRepo provides database operations for identity records. The app_users
// table carries a unique index on lower(email); concurrent first logins race
// on the insert and exactly one wins, so Create resolves the conflict by
// re-reading instead of failing.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with the real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

const userColumns = `id, email, name, role, created_at`

// FindByEmail retrieves the identity record for the given email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (domainauth.User, error) {
	var out domainauth.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx,
			`SELECT `+userColumns+` FROM app_users WHERE lower(email) = lower($1)`,
			strings.TrimSpace(email),
		)
		return scanUser(row, &out)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainauth.User{}, ErrUserNotFound
		}
		return domainauth.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return out, nil
}

// Create inserts a new identity record. A unique violation on email means a
// concurrent login created the record first; the existing row is re-read and
// returned with AlreadyExisted set, never an error.
func (r *UserRepo) Create(ctx context.Context, user domainauth.User) (ports.CreateUserResult, error) {
	if user.Email == "" {
		return ports.CreateUserResult{}, errors.New("email is required")
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.timeProvider.Now().UTC()
	}

	var out domainauth.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			INSERT INTO app_users (id, email, name, role, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+userColumns,
			user.ID,
			strings.TrimSpace(user.Email),
			user.Name,
			string(user.Role),
			user.CreatedAt,
		)
		return scanUser(row, &out)
	})
	if err != nil {
		if isUniqueViolation(err) {
			existing, findErr := r.FindByEmail(ctx, user.Email)
			if findErr != nil {
				return ports.CreateUserResult{}, fmt.Errorf("re-read user after duplicate insert: %w", findErr)
			}
			return ports.CreateUserResult{User: existing, AlreadyExisted: true}, nil
		}
		return ports.CreateUserResult{}, fmt.Errorf("create user: %w", err)
	}
	return ports.CreateUserResult{User: out}, nil
}

// UpdateRole sets the role for an existing record.
func (r *UserRepo) UpdateRole(ctx context.Context, id string, role domainauth.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}

	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `UPDATE app_users SET role = $2 WHERE id = $1`, id, string(role))
		if err != nil {
			return fmt.Errorf("update user role: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// Count returns the number of registered users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT count(*) FROM app_users`).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func scanUser(row pgx.Row, out *domainauth.User) error {
	var role string
	if err := row.Scan(&out.ID, &out.Email, &out.Name, &role, &out.CreatedAt); err != nil {
		return err
	}
	out.Role = domainauth.Role(role)
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (the expected duplicate-insert race on first login).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
