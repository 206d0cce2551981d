package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/warehouse/internal/contracts"
)

const uniqueViolation = "23505"

// Repository stores user accounts
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByLogin returns contracts.ErrNotFound for unknown logins
func (r *Repository) GetByLogin(ctx context.Context, login string) (*contracts.User, error) {
	query := `SELECT id, login, password_hash, role, created_at FROM users WHERE login = $1`

	var u contracts.User
	err := r.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user and fills ID and CreatedAt
func (r *Repository) Create(ctx context.Context, u *contracts.User) error {
	query := `
		INSERT INTO users (login, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, u.Login, u.PasswordHash, string(u.Role)).Scan(&u.ID, &u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return contracts.ErrConflict
	}
	return err
}

// ListNonAdmin returns all users except admins, ordered by login
func (r *Repository) ListNonAdmin(ctx context.Context) ([]contracts.User, error) {
	query := `
		SELECT id, login, password_hash, role, created_at
		FROM users
		WHERE role <> $1
		ORDER BY login`

	rows, err := r.pool.Query(ctx, query, string(contracts.RoleAdmin))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []contracts.User{}
	for rows.Next() {
		var u contracts.User
		if err := rows.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
