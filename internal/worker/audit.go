package worker

import (
	"context"
	"log/slog"

	"account-service/internal/metrics"
)

const (
	EventRegistered   = "registered"
	EventLogin        = "login"
	EventStatusUpdate = "status_update"
	EventDelete       = "delete"
)

type AccountEvent struct {
	Type    string
	UserIDs []int64
	ActorID int64
}

// AuditWorker consumes account lifecycle events off a channel and records
// them to the log and metrics, off the request path.
type AuditWorker struct {
	Ch  <-chan AccountEvent
	Log *slog.Logger
}

func NewAuditWorker(ch <-chan AccountEvent, log *slog.Logger) *AuditWorker {
	if log == nil {
		log = slog.Default()
	}
	return &AuditWorker{Ch: ch, Log: log}
}

func (w *AuditWorker) Run(ctx context.Context) {
	w.Log.Info("audit worker started")
	for {
		select {
		case <-ctx.Done():
			w.Log.Info("audit worker stopped")
			return
		case ev := <-w.Ch:
			metrics.IncAccountEvent(ev.Type)
			w.Log.Info("account event",
				"type", ev.Type,
				"user_ids", ev.UserIDs,
				"actor_id", ev.ActorID,
			)
		}
	}
}
