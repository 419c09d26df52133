package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/polas15-707-eng/teachassist-app/internal/config"
	"github.com/polas15-707-eng/teachassist-app/internal/event"
	"github.com/polas15-707-eng/teachassist-app/internal/mailer"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	notificationPollTimeout = 1 * time.Second
	// A payload is retried once by requeueing; a second failure drops it.
	keyAttempt = "_attempt"
)

// NotificationWorker drains the notification queue and turns each event
// into an outbound email. Delivery is best-effort: a failed send is
// requeued once and then dropped with a log entry.
type NotificationWorker struct {
	rdb    *redis.Client
	mailer mailer.Mailer
	log    zerolog.Logger
}

func NewNotificationWorker(rdb *redis.Client, m mailer.Mailer, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		rdb:    rdb,
		mailer: m,
		log:    log.With().Str("component", "notification_worker").Logger(),
	}
}

// Start blocks until ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotificationWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("NotificationWorker shutting down")
			return

		default:
			item, err := w.rdb.BLPop(ctx, notificationPollTimeout, config.WorkerKey.NotificationQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var ev event.Event
			if err := json.Unmarshal([]byte(item[1]), &ev); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			w.deliver(ctx, ev)
		}
	}
}

// Deliver renders and sends one event synchronously. Exposed for the
// in-process delivery path and tests; Start uses it for each queue item.
func (w *NotificationWorker) Deliver(ctx context.Context, ev event.Event) error {
	msg := mailer.Message{
		ToName:   ev.Payload[event.KeyRecipientName],
		ToAddr:   ev.Payload[event.KeyRecipientEmail],
		Template: string(ev.Type),
		Data:     ev.Payload,
	}
	return w.mailer.Send(ctx, msg)
}

func (w *NotificationWorker) deliver(ctx context.Context, ev event.Event) {
	if ev.Payload[event.KeyRecipientEmail] == "" {
		w.log.Warn().Str("type", string(ev.Type)).Msg("event without recipient, dropping")
		return
	}

	if err := w.Deliver(ctx, ev); err == nil {
		w.log.Info().
			Str("type", string(ev.Type)).
			Str("to", ev.Payload[event.KeyRecipientEmail]).
			Msg("notification sent")
		return
	} else if ev.Payload[keyAttempt] != "" {
		w.log.Error().Err(err).
			Str("type", string(ev.Type)).
			Str("to", ev.Payload[event.KeyRecipientEmail]).
			Msg("notification failed twice, dropping")
		return
	} else {
		w.log.Warn().Err(err).
			Str("type", string(ev.Type)).
			Msg("notification failed, requeueing once")
	}

	ev.Payload[keyAttempt] = "1"
	raw, err := json.Marshal(ev)
	if err != nil {
		return
	}
	// Use a fresh context so a shutdown doesn't lose the retry.
	w.rdb.RPush(context.Background(), config.WorkerKey.NotificationQueue, raw)
}
