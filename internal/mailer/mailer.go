package mailer

import "context"

// Message is a templated outbound email. Template names the mail template
// and Data supplies its flat key/value payload; implementations render both
// into subject and body before delivery.
type Message struct {
	ToName   string
	ToAddr   string
	Template string
	Data     map[string]string
}

// Mailer delivers notification emails. Delivery is best-effort: the caller
// logs failures and never retries or propagates them into the command path.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
