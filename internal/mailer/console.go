package mailer

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

type consoleMailer struct {
	log zerolog.Logger
}

// NewConsoleMailer creates a Mailer that writes rendered mails to the log.
// Used in development when no SendGrid key is configured.
func NewConsoleMailer(log zerolog.Logger) Mailer {
	return &consoleMailer{log: log.With().Str("component", "console_mailer").Logger()}
}

func (m *consoleMailer) Send(_ context.Context, msg Message) error {
	subject, body, err := Render(msg)
	if err != nil {
		return err
	}
	m.log.Info().
		Str("to", msg.ToAddr).
		Str("template", msg.Template).
		Str("subject", subject).
		Msg("\n" + body)
	return nil
}

// Recorder is a Mailer for tests: it renders and records every message
// instead of delivering it.
type Recorder struct {
	mu   sync.Mutex
	Sent []Message
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	if _, _, err := Render(msg); err != nil {
		return err
	}
	r.mu.Lock()
	r.Sent = append(r.Sent, msg)
	r.mu.Unlock()
	return nil
}
