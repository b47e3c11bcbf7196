package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
	"github.com/ruslanmv/medical-ai-hospital/internal/repository"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User

	failGetByEmail     error
	failUpdatePassword error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]domain.User{}}
}

func (r *memoryUserRepo) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrConflict
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := user
	return &copied, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.failGetByEmail != nil {
		return nil, r.failGetByEmail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepo) UpdatePassword(_ context.Context, id, passwordHash, passwordAlgo string, changedAt time.Time) error {
	if r.failUpdatePassword != nil {
		return r.failUpdatePassword
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.PasswordAlgo = passwordAlgo
	user.UpdatedAt = changedAt
	r.users[id] = user
	return nil
}

type memorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session

	failRevokeAll error
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: map[string]domain.Session{}}
}

func (r *memorySessionRepo) Create(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.TokenHash] = session
	return nil
}

func (r *memorySessionRepo) GetValidByHash(_ context.Context, tokenHash string, at time.Time) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[tokenHash]
	if !ok || !session.IsActive(at) {
		return nil, repository.ErrNotFound
	}
	copied := session
	return &copied, nil
}

func (r *memorySessionRepo) RevokeByHash(_ context.Context, tokenHash string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[tokenHash]
	if !ok {
		return nil
	}
	session.Revoke(at)
	r.sessions[tokenHash] = session
	return nil
}

func (r *memorySessionRepo) RevokeAllForUser(_ context.Context, userID string, at time.Time) (int, error) {
	if r.failRevokeAll != nil {
		return 0, r.failRevokeAll
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for hash, session := range r.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			session.Revoke(at)
			r.sessions[hash] = session
			count++
		}
	}
	return count, nil
}

func (r *memorySessionRepo) ListActiveByUser(_ context.Context, userID string, at time.Time) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []domain.Session
	for _, session := range r.sessions {
		if session.UserID == userID && session.IsActive(at) {
			active = append(active, session)
		}
	}
	return active, nil
}

type memoryResetRepo struct {
	mu     sync.Mutex
	tokens map[string]domain.PasswordResetToken
}

func newMemoryResetRepo() *memoryResetRepo {
	return &memoryResetRepo{tokens: map[string]domain.PasswordResetToken{}}
}

func (r *memoryResetRepo) Create(_ context.Context, token domain.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *memoryResetRepo) ConsumeIfValid(_ context.Context, tokenHash string, at time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenHash]
	if !ok || !token.IsUsable(at) {
		return "", repository.ErrNotFound
	}
	token.Consume(at)
	r.tokens[tokenHash] = token
	return token.UserID, nil
}

type recordingPublisher struct {
	mu              sync.Mutex
	registered      []domain.UserRegisteredEvent
	passwordChanged []domain.PasswordChangedEvent
	resetRequested  []domain.PasswordResetRequestedEvent
	sessionRevoked  []domain.SessionRevokedEvent
}

func (p *recordingPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, event)
	return nil
}

func (p *recordingPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.passwordChanged = append(p.passwordChanged, event)
	return nil
}

func (p *recordingPublisher) PublishPasswordResetRequested(_ context.Context, event domain.PasswordResetRequestedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetRequested = append(p.resetRequested, event)
	return nil
}

func (p *recordingPublisher) PublishSessionRevoked(_ context.Context, event domain.SessionRevokedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessionRevoked = append(p.sessionRevoked, event)
	return nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

type sentMail struct {
	to      string
	subject string
	text    string
	html    string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, text, html string) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, text: text, html: html})
	return nil
}
