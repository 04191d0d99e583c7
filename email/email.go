package email

import "context"

// Service sends transactional mail. Implementations are expected to be
// safe for concurrent use.
type Service interface {
	// SendPasswordReset delivers a password reset link to the address.
	SendPasswordReset(ctx context.Context, to, link string) error
}
