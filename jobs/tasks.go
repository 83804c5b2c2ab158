package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionPurge deletes session audit rows for tokens past expiry.
	TaskSessionPurge = "auth:purge_sessions"
)

// SessionPurgePayload carries scheduling metadata for a purge run.
type SessionPurgePayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewSessionPurgeTask constructs an Asynq task for session purging.
func NewSessionPurgeTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SessionPurgePayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionPurge, body, asynq.Queue(QueueDefault)), nil
}

// SessionPurger removes expired session audit rows.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// NewSessionPurgeHandler builds the handler for TaskSessionPurge.
func NewSessionPurgeHandler(purger SessionPurger, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SessionPurgePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		deleted, err := purger.PurgeExpiredSessions(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("purged expired sessions",
				slog.Int64("deleted", deleted),
				slog.Time("scheduled_for", payload.ScheduledFor))
		}
		return nil
	}
}
