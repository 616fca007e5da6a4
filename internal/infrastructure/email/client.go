// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"

	"github.com/campaignforge/campaignforge-go/internal/infrastructure/email/templates"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/campaignforge/campaignforge-go/pkg/config"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock
// implementations in tests.
type Service interface {
	SendTemplatePreview(toEmail, campaignName, subject, content, callToAction string) error
}

// ResendClient is the concrete implementation of the email Service using
// the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	logger    *logging.ChanneledLogger
}

// NewService creates a new email service client, returning the Service interface.
func NewService(logger *logging.ChanneledLogger) (Service, error) {
	if config.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	return &ResendClient{
		client:    resend.NewClient(config.ResendAPIKey),
		fromEmail: config.EmailFrom,
		fromName:  config.EmailFromName,
		logger:    logger,
	}, nil
}

// SendTemplatePreview composes and sends a rendered campaign email preview.
func (c *ResendClient) SendTemplatePreview(toEmail, campaignName, subject, content, callToAction string) error {
	htmlContent := templates.GetEmailLayout(templates.LayoutProps{
		Title: subject,
		Content: templates.GetPreviewContent(templates.PreviewProps{
			CampaignName: campaignName,
			Subject:      subject,
			Content:      content,
			CallToAction: callToAction,
		}),
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: fmt.Sprintf("[Preview] %s", subject),
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send template preview via Resend: %w", err)
	}

	if c.logger != nil {
		c.logger.Email().Info("Template preview sent", "to", toEmail, "campaign", campaignName)
	}
	return nil
}
