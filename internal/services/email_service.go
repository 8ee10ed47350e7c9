package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/dealdesk/dealdesk-api/internal/config"
	"github.com/dealdesk/dealdesk-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// EmailService sends transactional mail through Resend. When no API key is
// configured the service is a no-op.
type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config:       cfg,
		resendClient: resend.NewClient(cfg.ResendAPIKey),
	}
}

func (s *EmailService) enabled() bool {
	return s.config.ResendAPIKey != "" && s.config.FromEmail != ""
}

// SendDealSubmitted confirms a successful submission to the author.
func (s *EmailService) SendDealSubmitted(ctx context.Context, toEmail, name, dealRef string) error {
	if !s.enabled() || toEmail == "" {
		return nil
	}

	data := struct {
		Name    string
		DealRef string
	}{
		Name:    name,
		DealRef: dealRef,
	}

	body, err := s.renderTemplate("deal_submitted.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{toEmail},
		Subject: "Deal submitted",
		Html:    body,
	}
	if _, err := s.resendClient.Emails.Send(params); err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", toEmail, err))
		return err
	}

	logger.Info("Submission confirmation email sent", "to", toEmail, "deal", dealRef)
	return nil
}

func (s *EmailService) renderTemplate(name string, data any) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
