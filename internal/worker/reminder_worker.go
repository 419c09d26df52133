package worker

import (
	"context"
	"time"

	"github.com/polas15-707-eng/teachassist-app/internal/config"
	"github.com/polas15-707-eng/teachassist-app/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ReminderWorker periodically scans for approved bookings starting within
// the lookahead window and queues one reminder per booking. The scan is
// idempotent: a booking is claimed atomically in the database, so
// overlapping runs never double-send.
type ReminderWorker struct {
	cfg            *config.Config
	bookingService *service.BookingService
	cron           *cron.Cron
	log            zerolog.Logger
}

func NewReminderWorker(cfg *config.Config, bookingService *service.BookingService, log zerolog.Logger) *ReminderWorker {
	return &ReminderWorker{
		cfg:            cfg,
		bookingService: bookingService,
		cron:           cron.New(),
		log:            log.With().Str("component", "reminder_worker").Logger(),
	}
}

// Start registers the cron schedule and runs until ctx is cancelled.
func (w *ReminderWorker) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.cfg.ReminderCronSpec, func() {
		w.runOnce(ctx)
	})
	if err != nil {
		return err
	}

	w.log.Info().Str("spec", w.cfg.ReminderCronSpec).Msg("ReminderWorker started")
	w.cron.Start()

	<-ctx.Done()
	w.log.Info().Msg("ReminderWorker shutting down")

	// Stop returns a context that is done once in-flight jobs finish.
	<-w.cron.Stop().Done()
	return nil
}

func (w *ReminderWorker) runOnce(ctx context.Context) {
	scanCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	sent, err := w.bookingService.ScanDueReminders(scanCtx, time.Now(), w.cfg.ReminderLookahead)
	if err != nil {
		w.log.Error().Err(err).Msg("reminder scan failed")
		return
	}
	if sent > 0 {
		w.log.Info().Int("count", sent).Msg("reminders queued")
	}
}
