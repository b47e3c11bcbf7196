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

// consumeResetSQL marks a reset token as used only when it is still unused and
// unexpired. The conditional UPDATE is the single serialization point: under
// concurrent redemption exactly one statement matches the row.
const consumeResetSQL = `
	UPDATE password_resets
	   SET used_at = $2
	 WHERE token_hash = $1
	   AND used_at IS NULL
	   AND expires_at > $2
	RETURNING user_id
`

// ResetTokenRepository implements port.ResetTokenRepository backed by PostgreSQL.
type ResetTokenRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewResetTokenRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewResetTokenRepository(exec pgExecutor) *ResetTokenRepository {
	repo := &ResetTokenRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create persists a new reset token row.
func (r *ResetTokenRepository) Create(ctx context.Context, token domain.PasswordResetToken) error {
	stmt, args, err := r.builder.Insert("password_resets").
		Columns(
			"id",
			"user_id",
			"token_hash",
			"ip_address",
			"user_agent",
			"created_at",
			"expires_at",
			"used_at",
		).
		Values(
			token.ID,
			token.UserID,
			token.TokenHash,
			token.IP,
			token.UserAgent,
			token.CreatedAt,
			token.ExpiresAt,
			token.UsedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert reset token sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}

	return nil
}

// ConsumeIfValid atomically redeems the token identified by tokenHash. Used,
// expired, and unknown digests all return repository.ErrNotFound.
func (r *ResetTokenRepository) ConsumeIfValid(ctx context.Context, tokenHash string, at time.Time) (string, error) {
	var userID string
	if err := r.exec.QueryRow(ctx, consumeResetSQL, tokenHash, at).Scan(&userID); err != nil {
		if err == pgx.ErrNoRows {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	return userID, nil
}

var _ port.ResetTokenRepository = (*ResetTokenRepository)(nil)
