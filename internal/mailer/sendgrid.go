package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/polas15-707-eng/teachassist-app/internal/config"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type sendgridMailer struct {
	key  string
	from *sgmail.Email
}

// NewSendgridMailer creates a Mailer backed by the SendGrid v3 API.
func NewSendgridMailer(cfg *config.Config) Mailer {
	return &sendgridMailer{
		key:  cfg.SendgridAPIKey,
		from: sgmail.NewEmail(cfg.MailFromName, cfg.MailFromAddr),
	}
}

func (m *sendgridMailer) Send(ctx context.Context, msg Message) error {
	subject, body, err := Render(msg)
	if err != nil {
		return err
	}

	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToAddr))

	mail := sgmail.NewV3Mail()
	mail.SetFrom(m.from)
	mail.AddPersonalizations(p)
	mail.AddContent(sgmail.NewContent("text/plain", body))

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(mail)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
