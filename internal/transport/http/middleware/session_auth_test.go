package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
	"github.com/ruslanmv/medical-ai-hospital/internal/repository"
	"github.com/ruslanmv/medical-ai-hospital/internal/usecase"
)

type stubSessionRepo struct {
	sessions map[string]*domain.Session
}

func (r *stubSessionRepo) Create(ctx context.Context, session domain.Session) error {
	if r.sessions == nil {
		r.sessions = make(map[string]*domain.Session)
	}
	r.sessions[session.TokenHash] = &session
	return nil
}

func (r *stubSessionRepo) GetValidByHash(ctx context.Context, hash string, at time.Time) (*domain.Session, error) {
	session, ok := r.sessions[hash]
	if !ok || !session.IsActive(at) {
		return nil, repository.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *stubSessionRepo) RevokeByHash(ctx context.Context, hash string, at time.Time) error {
	if session, ok := r.sessions[hash]; ok {
		session.Revoke(at)
	}
	return nil
}

func (r *stubSessionRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int, error) {
	revoked := 0
	for _, session := range r.sessions {
		if session.UserID == userID && session.Revoke(at) {
			revoked++
		}
	}
	return revoked, nil
}

func (r *stubSessionRepo) ListActiveByUser(ctx context.Context, userID string, at time.Time) ([]domain.Session, error) {
	var active []domain.Session
	for _, session := range r.sessions {
		if session.UserID == userID && session.IsActive(at) {
			active = append(active, *session)
		}
	}
	return active, nil
}

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) Create(ctx context.Context, user domain.User) error {
	if r.users == nil {
		r.users = make(map[string]*domain.User)
	}
	r.users[user.ID] = &user
	return nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) UpdatePassword(ctx context.Context, id, hash, algo string, changedAt time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = hash
	user.PasswordAlgo = algo
	return nil
}

func newSessionAuthRouter(t *testing.T) (*gin.Engine, *usecase.SessionService, *stubUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zaptest.NewLogger(t)
	sessionRepo := &stubSessionRepo{}
	userRepo := &stubUserRepo{}

	sessions := usecase.NewSessionService(sessionRepo, nil, log)
	auth := usecase.NewAuthService(userRepo, sessions, nil, nil, log)

	router := gin.New()
	protected := router.Group("/", SessionAuth("sid", auth, sessions))
	protected.GET("/me", func(c *gin.Context) {
		user, ok := GetAuthenticatedUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
	})

	return router, sessions, userRepo
}

func TestSessionAuthAllowsValidCookie(t *testing.T) {
	router, sessions, userRepo := newSessionAuthRouter(t)

	now := time.Now().UTC()
	userRepo.Create(context.Background(), domain.User{
		ID:        "user-1",
		Email:     "alice@example.com",
		IsActive:  true,
		CreatedAt: now,
	})

	raw, _, err := sessions.Issue(context.Background(), "user-1", usecase.SessionMetadata{})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: raw})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSessionAuthRejectsIdentically(t *testing.T) {
	router, sessions, userRepo := newSessionAuthRouter(t)

	now := time.Now().UTC()
	userRepo.Create(context.Background(), domain.User{
		ID:        "user-2",
		Email:     "bob@example.com",
		IsActive:  false,
		CreatedAt: now,
	})

	inactiveToken, _, err := sessions.Issue(context.Background(), "user-2", usecase.SessionMetadata{})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	cases := map[string]func(*http.Request){
		"missing cookie": func(req *http.Request) {},
		"unknown token": func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "sid", Value: "bogus-token"})
		},
		"inactive account": func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "sid", Value: inactiveToken})
		},
	}

	var bodies []string
	for name, prepare := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		prepare(req)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rr.Code)
		}
		bodies = append(bodies, rr.Body.String())
	}

	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Fatalf("rejection bodies differ: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestSessionAuthRejectsRevokedSession(t *testing.T) {
	router, sessions, userRepo := newSessionAuthRouter(t)

	userRepo.Create(context.Background(), domain.User{
		ID:       "user-3",
		Email:    "carol@example.com",
		IsActive: true,
	})

	raw, _, err := sessions.Issue(context.Background(), "user-3", usecase.SessionMetadata{})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if err := sessions.Revoke(context.Background(), raw); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: raw})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked session, got %d", rr.Code)
	}
}
