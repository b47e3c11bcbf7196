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

// ErrResetTokenInvalid covers every way a reset token can fail: unknown,
// expired, or already used. Callers receive a single generic outcome.
var ErrResetTokenInvalid = errors.New("invalid or expired reset token")

const defaultResetTTL = time.Hour

// PasswordResetService drives the forgot-password and reset-password flows.
type PasswordResetService struct {
	users           port.UserRepository
	resets          port.ResetTokenRepository
	sessions        *SessionService
	mailer          port.Mailer
	events          port.EventPublisher
	logger          *zap.Logger
	validator       *security.PasswordValidator
	frontendBaseURL string
	resetTTL        time.Duration
	now             func() time.Time
}

// NewPasswordResetService constructs a PasswordResetService instance.
func NewPasswordResetService(
	users port.UserRepository,
	resets port.ResetTokenRepository,
	sessions *SessionService,
	mailer port.Mailer,
	events port.EventPublisher,
	validator *security.PasswordValidator,
	frontendBaseURL string,
	log *zap.Logger,
) *PasswordResetService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PasswordResetService{
		users:           users,
		resets:          resets,
		sessions:        sessions,
		mailer:          mailer,
		events:          events,
		validator:       validator,
		frontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
		resetTTL:        defaultResetTTL,
		logger:          log,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source, primarily for tests.
func (s *PasswordResetService) WithClock(now func() time.Time) *PasswordResetService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithTTL overrides the reset token lifetime.
func (s *PasswordResetService) WithTTL(ttl time.Duration) *PasswordResetService {
	if ttl > 0 {
		s.resetTTL = ttl
	}
	return s
}

// Request starts the forgot-password flow. An unknown email is a silent
// success so callers cannot probe which addresses hold accounts; mail
// delivery is best-effort and never changes the outcome.
func (s *PasswordResetService) Request(ctx context.Context, email string, meta SessionMetadata) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("password reset requested for unknown email",
				zap.String("email", logger.MaskEmail(email)))
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	raw, err := security.GenerateSecureToken(security.SessionTokenBytes)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	now := s.now()
	token := domain.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: security.HashToken(raw),
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.resetTTL),
	}

	if err := s.resets.Create(ctx, token); err != nil {
		return fmt.Errorf("persist reset token: %w", err)
	}

	requestID := uuid.NewString()
	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendBaseURL, raw)
	if err := s.sendResetMail(ctx, user.Email, link); err != nil {
		s.logger.Warn("failed to send password reset mail",
			zap.String("user_id", user.ID),
			zap.String("email", logger.MaskEmail(user.Email)),
			zap.Error(err))
	}

	if s.events != nil {
		event := domain.PasswordResetRequestedEvent{
			EventID:           uuid.NewString(),
			UserID:            user.ID,
			RequestID:         requestID,
			RequestedAt:       now,
			MaskedDestination: logger.MaskEmail(user.Email),
			IPAddress:         meta.IP,
			ExpiresAt:         token.ExpiresAt,
		}
		if err := s.events.PublishPasswordResetRequested(ctx, event); err != nil {
			s.logger.Warn("failed to publish reset requested event",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
	}

	return nil
}

// Confirm completes the reset flow: the token is atomically consumed, the
// password replaced, and every active session revoked. Session revocation is
// best-effort; a failure there is logged but does not undo the reset.
func (s *PasswordResetService) Confirm(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" {
		return ErrResetTokenInvalid
	}

	if err := s.validator.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	now := s.now()
	userID, err := s.resets.ConsumeIfValid(ctx, security.HashToken(rawToken), now)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash, "argon2id", now); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	revoked := 0
	if s.sessions != nil {
		revoked, err = s.sessions.RevokeAll(ctx, userID, "password_reset", "password reset")
		if err != nil {
			s.logger.Warn("failed to revoke sessions after password reset",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}

	s.logger.Info("password reset completed",
		zap.String("user_id", userID),
		zap.Int("sessions_revoked", revoked))

	if s.events != nil {
		event := domain.PasswordChangedEvent{
			EventID:         uuid.NewString(),
			UserID:          userID,
			ChangedAt:       now,
			ChangedBy:       "password_reset",
			SessionsRevoked: revoked,
		}
		if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
			s.logger.Warn("failed to publish password changed event",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}

	return nil
}

func (s *PasswordResetService) sendResetMail(ctx context.Context, to, link string) error {
	if s.mailer == nil {
		return fmt.Errorf("mailer not configured")
	}

	minutes := int(s.resetTTL.Minutes())
	subject := "Reset your password"
	text := fmt.Sprintf(
		"We received a request to reset your password.\n\n"+
			"Open the link below to choose a new one. The link expires in %d minutes.\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.",
		minutes, link)
	html := fmt.Sprintf(
		"<p>We received a request to reset your password.</p>"+
			"<p><a href=%q>Reset your password</a> (expires in %d minutes)</p>"+
			"<p>If you did not request this, you can ignore this message.</p>",
		link, minutes)

	return s.mailer.Send(ctx, to, subject, text, html)
}
