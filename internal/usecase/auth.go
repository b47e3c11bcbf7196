package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
	"github.com/ruslanmv/medical-ai-hospital/internal/core/port"
	"github.com/ruslanmv/medical-ai-hospital/internal/infra/logger"
	"github.com/ruslanmv/medical-ai-hospital/internal/infra/security"
	"github.com/ruslanmv/medical-ai-hospital/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	// Unknown accounts and wrong passwords are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveAccount indicates the account exists but login is disabled.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrWeakPassword indicates the password failed policy validation.
	ErrWeakPassword = errors.New("password does not meet policy")
)

// AuthService coordinates registration and credential-based authentication.
type AuthService struct {
	users     port.UserRepository
	sessions  *SessionService
	events    port.EventPublisher
	validator *security.PasswordValidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserRepository,
	sessions *SessionService,
	events port.EventPublisher,
	validator *security.PasswordValidator,
	log *zap.Logger,
) *AuthService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		events:    events,
		validator: validator,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source, primarily for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	if now != nil {
		s.now = now
	}
	return s
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Email    string
	Password string
	FullName *string
	Phone    *string
	IP       *string
}

// Register creates a new account. A duplicate email yields ErrEmailTaken and
// a rejected password yields an error wrapping ErrWeakPassword.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if err := s.validator.Validate(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		PasswordAlgo: "argon2id",
		FullName:     input.FullName,
		Phone:        input.Phone,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
		zap.Int("password_strength", security.PasswordStrengthScore(input.Password, email)))

	if s.events != nil {
		event := domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       user.ID,
			Email:        user.Email,
			RegisteredAt: now,
			IPAddress:    input.IP,
		}
		if err := s.events.PublishUserRegistered(ctx, event); err != nil {
			s.logger.Warn("failed to publish user registered event",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
	}

	sanitized := user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// Login verifies credentials and, on success, issues a session. Unknown
// emails and wrong passwords both map to ErrInvalidCredentials; an inactive
// account is only revealed after the password check succeeds.
func (s *AuthService) Login(ctx context.Context, email, password string, meta SessionMetadata) (string, *domain.Session, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, nil, ErrInvalidCredentials
		}
		return "", nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return "", nil, nil, ErrInvalidCredentials
	}

	if !user.CanAuthenticate() {
		return "", nil, nil, ErrInactiveAccount
	}

	raw, session, err := s.sessions.Issue(ctx, user.ID, meta)
	if err != nil {
		return "", nil, nil, err
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return raw, session, &sanitized, nil
}

// CurrentUser loads the account behind a validated session, rejecting
// inactive or missing accounts.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.CanAuthenticate() {
		return nil, ErrNotAuthenticated
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
