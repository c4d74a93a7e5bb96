package sqldb

import (
	"context"
	"database/sql"

	"github.com/clipdeck/internal/core/domain"
)

type SessionRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewSessionRepository(db *sql.DB, dialect Dialect) *SessionRepository {
	return &SessionRepository{db: db, dialect: dialect}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := r.dialect.rebind(`
		INSERT INTO sessions (id, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.ExpiresAt,
		session.CreatedAt,
	)
	return err
}

func (r *SessionRepository) Find(ctx context.Context, id string) (*domain.Session, error) {
	query := r.dialect.rebind(`
		SELECT id, user_id, expires_at, created_at
		FROM sessions
		WHERE id = ?
	`)

	var session domain.Session
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	query := r.dialect.rebind(`DELETE FROM sessions WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
