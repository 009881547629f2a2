// internal/adapters/out/mail/sendgrid_client.go
package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Client is the outbound mail port (password-reset delivery).
type Client interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// SendGridClient implements Client via the SendGrid API.
type SendGridClient struct {
	apiKey   string
	fromName string
}

func NewSendGridClient(apiKey string) *SendGridClient {
	return &SendGridClient{apiKey: apiKey, fromName: "Storefront"}
}

// Send sends one plain-text email (HTML mirror is minimal).
func (c *SendGridClient) Send(ctx context.Context, from, to, subject, body string) error {
	if c == nil || c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if from == "" {
		return fmt.Errorf("from address is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	fromEmail := mail.NewEmail(c.fromName, from)
	toEmail := mail.NewEmail("", to)

	plainTextContent := body
	htmlContent := fmt.Sprintf("<pre>%s</pre>", body)

	message := mail.NewSingleEmail(
		fromEmail,
		subject,
		toEmail,
		plainTextContent,
		htmlContent,
	)

	client := sendgrid.NewSendClient(c.apiKey)

	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}

	if response.StatusCode >= 400 {
		log.Printf("[sendgrid] error status=%d, body=%s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid send failed with status %d", response.StatusCode)
	}

	log.Printf("[sendgrid] sent to=%s subject=%q status=%d", to, subject, response.StatusCode)
	return nil
}
