package port

import "context"

// Mailer sends transactional mail. Implementations are expected to be
// best-effort; callers decide whether a failure is fatal.
type Mailer interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}
