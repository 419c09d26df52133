package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/polas15-707-eng/teachassist-app/internal/config"
	"github.com/polas15-707-eng/teachassist-app/internal/response"
	"github.com/polas15-707-eng/teachassist-app/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SystemHandler serves health and operational endpoints.
type SystemHandler struct {
	cfg            *config.Config
	db             *pgxpool.Pool
	rdb            *redis.Client
	bookingService *service.BookingService
	startTime      time.Time
	log            zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(
	cfg *config.Config,
	db *pgxpool.Pool,
	rdb *redis.Client,
	bookingService *service.BookingService,
	log zerolog.Logger,
) *SystemHandler {
	return &SystemHandler{
		cfg:            cfg,
		db:             db,
		rdb:            rdb,
		bookingService: bookingService,
		startTime:      time.Now(),
		log:            log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /health
// Pings Postgres and Redis and reports the notification queue depth.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	status := http.StatusOK
	dbOK, redisOK := true, true

	if err := h.db.Ping(ctx); err != nil {
		dbOK = false
		status = http.StatusServiceUnavailable
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		redisOK = false
		status = http.StatusServiceUnavailable
	}

	var queueDepth int64
	if redisOK {
		queueDepth, _ = h.rdb.LLen(ctx, config.WorkerKey.NotificationQueue).Result()
	}

	c.JSON(status, gin.H{
		"database":           dbOK,
		"redis":              redisOK,
		"notification_queue": queueDepth,
		"uptime_seconds":     int64(time.Since(h.startTime).Seconds()),
	})
}

// RunReminders godoc
// POST /api/v1/admin/reminders/run
// Triggers a reminder scan immediately instead of waiting for the next
// scheduled run. Used for ops and debugging.
func (h *SystemHandler) RunReminders(c *gin.Context) {
	sent, err := h.bookingService.ScanDueReminders(c.Request.Context(), time.Now(), h.cfg.ReminderLookahead)
	if err != nil {
		h.log.Error().Err(err).Msg("manual reminder scan failed")
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reminders_sent": sent})
}
