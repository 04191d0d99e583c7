package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/config"
	"github.com/campushq/eventdesk/services"
)

// SendGridService delivers mail through the SendGrid v3 API.
type SendGridService struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
	logger     *zap.Logger
}

var _ Service = (*SendGridService)(nil)

func NewSendGridService(cfg config.EmailConfig, logger *zap.Logger) *SendGridService {
	return &SendGridService{
		client:     sendgrid.NewSendClient(cfg.SendGridKey),
		from:       sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		subjPrefix: "[" + cfg.AppName + "] ",
		logger:     logger,
	}
}

func (s *SendGridService) SendPasswordReset(ctx context.Context, to, link string) error {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + "Reset your password"
	p.AddTos(sgmail.NewEmail("", to))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", resetTextBody(link)),
		sgmail.NewContent("text/html", resetHTMLBody(link)),
	)

	res, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return services.ErrEmailService.Wrap(err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.logger.Error("sendgrid rejected message",
			zap.Int("status", res.StatusCode),
			zap.String("body", res.Body))
		return services.ErrEmailService.WithDetail("status", fmt.Sprintf("%d", res.StatusCode))
	}

	s.logger.Debug("password reset email sent", zap.String("to", to))
	return nil
}

func resetTextBody(link string) string {
	return fmt.Sprintf(
		"We received a request to reset the password for your account.\r\n\r\n"+
			"Open the link below to choose a new password:\r\n%s\r\n\r\n"+
			"If you did not request this, you can safely ignore this email.\r\n",
		link)
}

func resetHTMLBody(link string) string {
	return fmt.Sprintf(
		`<p>We received a request to reset the password for your account.</p>`+
			`<p><a href=%q>Reset your password</a></p>`+
			`<p>If you did not request this, you can safely ignore this email.</p>`,
		link)
}
