package services

import (
	"context"
	"log/slog"
	"time"
)

// StartSessionCleanup starts a background goroutine that periodically sweeps
// idle sessions out of the store.
func StartSessionCleanup(ctx context.Context, store *SessionStore, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Session cleanup stopped")
				return
			case <-ticker.C:
				if removed := store.Sweep(); removed > 0 {
					slog.Info("Swept idle sessions", "removed", removed, "remaining", store.Len())
				}
			}
		}
	}()

	slog.Info("Session cleanup started", "interval", interval)
}
