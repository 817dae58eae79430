package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSender renders pipeline notifications and sends them over SMTP.
// With an empty host it only logs what it would have sent.
type EmailSender struct {
	settings Settings
	dialer   Dialer
	logger   *zap.Logger
}

func NewEmailSender(s Settings, logger *zap.Logger) *EmailSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	sender := &EmailSender{settings: s, logger: logger}
	if s.Host != "" {
		sender.dialer = gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	}
	return sender
}

// WithDialer replaces the SMTP dialer.
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

func (s *EmailSender) Enabled() bool {
	return s.dialer != nil && s.settings.NotifyTo != ""
}

func (s *EmailSender) NotifyDealClosed(ctx context.Context, ev entity.PipelineEvent) error {
	data := dealClosedData(ev)
	subject := fmt.Sprintf("Deal #%s %s", data.DealID, ev.Stage)
	return s.send(ctx, "deal_closed.html", subject, data)
}

func (s *EmailSender) NotifyConnectionOnboarded(ctx context.Context, ev entity.PipelineEvent) error {
	data := connectionOnboardedData(ev)
	subject := fmt.Sprintf("New connection: %s", ev.Name)
	return s.send(ctx, "connection_onboarded.html", subject, data)
}

func (s *EmailSender) send(ctx context.Context, tmpl, subject string, data any) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}

	if !s.Enabled() {
		s.logger.Info("mail disabled, skipping notification",
			zap.String("template", tmpl),
			zap.String("subject", subject),
		)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.settings.From)
	m.SetHeader("To", s.settings.NotifyTo)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send smtp mail: %w", err)
	}

	s.logger.Debug("notification sent", zap.String("subject", subject))
	return nil
}
