package sqldb

import (
	"context"
	"database/sql"

	"github.com/clipdeck/internal/core/domain"
)

type UserRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewUserRepository(db *sql.DB, dialect Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := r.dialect.rebind(`
		INSERT INTO users (id, email, name, profile_image_url, provider, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.ProfileImageURL,
		user.Provider,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := r.dialect.rebind(`
		UPDATE users
		SET email = ?, name = ?, profile_image_url = ?, provider = ?, updated_at = ?
		WHERE id = ?
	`)

	_, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.Name,
		user.ProfileImageURL,
		user.Provider,
		user.UpdatedAt,
		user.ID,
	)
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := r.dialect.rebind(`
		SELECT id, email, name, profile_image_url, provider, created_at, updated_at
		FROM users
		WHERE id = ?
	`)
	return r.scanRow(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := r.dialect.rebind(`
		SELECT id, email, name, profile_image_url, provider, created_at, updated_at
		FROM users
		WHERE email = ?
	`)
	return r.scanRow(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) scanRow(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.ProfileImageURL,
		&user.Provider,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
