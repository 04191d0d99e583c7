package email

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleService logs mail instead of sending it. Used in development
// when no SendGrid key is configured.
type ConsoleService struct {
	logger *zap.Logger
}

var _ Service = (*ConsoleService)(nil)

func NewConsoleService(logger *zap.Logger) *ConsoleService {
	return &ConsoleService{logger: logger}
}

func (s *ConsoleService) SendPasswordReset(ctx context.Context, to, link string) error {
	s.logger.Info("password reset email (console)",
		zap.String("to", to),
		zap.String("link", link))
	return nil
}
