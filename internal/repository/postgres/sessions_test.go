package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
	"github.com/ruslanmv/medical-ai-hospital/internal/repository"
)

func TestSessionRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	createdAt := time.Now().UTC()
	ip := "203.0.113.9"
	session := domain.Session{
		ID:        "session-123",
		UserID:    "user-123",
		TokenHash: "digest-123",
		IP:        &ip,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(30 * 24 * time.Hour),
	}

	mock.ExpectExec(`INSERT INTO auth_sessions`).
		WithArgs(
			session.ID,
			session.UserID,
			session.TokenHash,
			&ip,
			session.UserAgent,
			session.CreatedAt,
			session.ExpiresAt,
			session.RevokedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), session); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepository_GetValidByHash(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "session_token_hash", "ip_address", "user_agent", "created_at", "expires_at", "revoked_at",
	}).AddRow(
		"session-1", "user-1", "digest-1", nil, nil, now, now.Add(time.Hour), nil,
	)

	mock.ExpectQuery(`SELECT .*FROM auth_sessions`).
		WithArgs("digest-1", now).
		WillReturnRows(rows)

	session, err := repo.GetValidByHash(context.Background(), "digest-1", now)
	if err != nil {
		t.Fatalf("GetValidByHash returned error: %v", err)
	}
	if session.ID != "session-1" || session.UserID != "user-1" {
		t.Fatalf("unexpected session: %+v", session)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepository_GetValidByHash_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .*FROM auth_sessions`).
		WithArgs("unknown", now).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "session_token_hash", "ip_address", "user_agent", "created_at", "expires_at", "revoked_at",
		}))

	if _, err := repo.GetValidByHash(context.Background(), "unknown", now); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepository_RevokeByHash(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	now := time.Now().UTC()
	mock.ExpectExec(`UPDATE auth_sessions`).
		WithArgs(now, "digest-7").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.RevokeByHash(context.Background(), "digest-7", now); err != nil {
		t.Fatalf("RevokeByHash returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepository_RevokeByHash_AlreadyRevoked(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	now := time.Now().UTC()
	mock.ExpectExec(`UPDATE auth_sessions`).
		WithArgs(now, "digest-7").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.RevokeByHash(context.Background(), "digest-7", now); err != nil {
		t.Fatalf("expected idempotent revoke, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepository_RevokeAllForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	now := time.Now().UTC()
	mock.ExpectExec(`UPDATE auth_sessions`).
		WithArgs(now, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	count, err := repo.RevokeAllForUser(context.Background(), "user-1", now)
	if err != nil {
		t.Fatalf("RevokeAllForUser returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 revoked sessions, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepository_ListActiveByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "session_token_hash", "ip_address", "user_agent", "created_at", "expires_at", "revoked_at",
	}).AddRow(
		"session-1", "user-1", "digest-1", nil, nil, now, now.Add(time.Hour), nil,
	).AddRow(
		"session-2", "user-1", "digest-2", nil, nil, now, now.Add(2*time.Hour), nil,
	)

	mock.ExpectQuery(`SELECT .*FROM auth_sessions`).
		WithArgs("user-1", now).
		WillReturnRows(rows)

	sessions, err := repo.ListActiveByUser(context.Background(), "user-1", now)
	if err != nil {
		t.Fatalf("ListActiveByUser returned error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected two sessions, got %d", len(sessions))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
