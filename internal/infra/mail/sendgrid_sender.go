// Package mail provides the SendGrid implementation of the MailSender boundary.
package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"storefront/config"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
)

// sendGridSender implements service.MailSender via the SendGrid v3 API.
type sendGridSender struct {
	apiKey   string
	from     string
	fromName string
}

// NewSendGridSender is the constructor for sendGridSender.
func NewSendGridSender(cfg *config.Config) (service.MailSender, error) {
	if cfg.Mail == nil || cfg.Mail.APIKey == "" {
		return nil, errors.New("sendgrid api key must be provided")
	}
	if cfg.Mail.From == "" {
		return nil, errors.New("mail from address must be provided")
	}

	return &sendGridSender{
		apiKey:   cfg.Mail.APIKey,
		from:     cfg.Mail.From,
		fromName: cfg.Mail.FromName,
	}, nil
}

// Send delivers one mail through SendGrid.
func (s *sendGridSender) Send(ctx context.Context, to, subject, body, htmlBody string) error {
	if to == "" {
		return errors.New("to address is empty")
	}

	if htmlBody == "" {
		htmlBody = fmt.Sprintf("<pre>%s</pre>", body)
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(s.fromName, s.from),
		subject,
		sgmail.NewEmail("", to),
		body,
		htmlBody,
	)

	client := sendgrid.NewSendClient(s.apiKey)

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return errors.Wrap(err, "sendgrid send failed")
	}

	if response.StatusCode >= 400 {
		return errors.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	return nil
}
