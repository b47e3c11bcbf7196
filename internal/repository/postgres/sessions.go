package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
	"github.com/ruslanmv/medical-ai-hospital/internal/core/port"
	"github.com/ruslanmv/medical-ai-hospital/internal/repository"
)

var sessionColumns = []string{
	"id",
	"user_id",
	"session_token_hash",
	"ip_address",
	"user_agent",
	"created_at",
	"expires_at",
	"revoked_at",
}

// SessionRepository implements port.SessionRepository backed by PostgreSQL.
type SessionRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSessionRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewSessionRepository(exec pgExecutor) *SessionRepository {
	repo := &SessionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create persists a new session row.
func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	stmt, args, err := r.builder.Insert("auth_sessions").
		Columns(sessionColumns...).
		Values(
			session.ID,
			session.UserID,
			session.TokenHash,
			session.IP,
			session.UserAgent,
			session.CreatedAt,
			session.ExpiresAt,
			session.RevokedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// GetValidByHash returns the session for the supplied token digest, provided
// it is neither revoked nor expired at the reference time. Revoked, expired,
// and unknown digests are indistinguishable: all yield repository.ErrNotFound.
func (r *SessionRepository) GetValidByHash(ctx context.Context, tokenHash string, at time.Time) (*domain.Session, error) {
	stmt, args, err := r.builder.
		Select(sessionColumns...).
		From("auth_sessions").
		Where(squirrel.Eq{"session_token_hash": tokenHash}).
		Where("revoked_at IS NULL").
		Where(squirrel.Gt{"expires_at": at}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select session sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var session domain.Session
	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.IP,
		&session.UserAgent,
		&session.CreatedAt,
		&session.ExpiresAt,
		&session.RevokedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	return &session, nil
}

// RevokeByHash marks the session with the supplied token digest as revoked.
// Revoking an already revoked or unknown digest is a no-op.
func (r *SessionRepository) RevokeByHash(ctx context.Context, tokenHash string, at time.Time) error {
	stmt, args, err := r.builder.Update("auth_sessions").
		Set("revoked_at", at).
		Where(squirrel.Eq{"session_token_hash": tokenHash}).
		Where("revoked_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build revoke session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

// RevokeAllForUser revokes every active session for the user in a single
// statement and returns the number of sessions affected.
func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int, error) {
	stmt, args, err := r.builder.Update("auth_sessions").
		Set("revoked_at", at).
		Where(squirrel.Eq{"user_id": userID}).
		Where("revoked_at IS NULL").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build revoke sessions sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions for user: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

// ListActiveByUser returns non-revoked, non-expired sessions for the user.
func (r *SessionRepository) ListActiveByUser(ctx context.Context, userID string, at time.Time) ([]domain.Session, error) {
	stmt, args, err := r.builder.
		Select(sessionColumns...).
		From("auth_sessions").
		Where(squirrel.Eq{"user_id": userID}).
		Where("revoked_at IS NULL").
		Where(squirrel.Gt{"expires_at": at}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sessions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.TokenHash,
			&session.IP,
			&session.UserAgent,
			&session.CreatedAt,
			&session.ExpiresAt,
			&session.RevokedAt,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

var _ port.SessionRepository = (*SessionRepository)(nil)
