// Package cleanup evicts idle dialogue sessions on a fixed interval.
package cleanup

import (
	"context"
	"time"

	"github.com/campaignforge/campaignforge-go/internal/domain/entities/conversation"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/caching/interfaces"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/campaignforge/campaignforge-go/pkg/config"
)

// Config controls idle session eviction. IdleTTL of zero disables
// eviction; sessions then live until an explicit end-session call.
type Config struct {
	IdleTTL  time.Duration
	Interval time.Duration
	Verbose  bool
}

// ConfigFromEnv builds the cleanup configuration from the central defaults.
func ConfigFromEnv() Config {
	return Config{
		IdleTTL:  config.SessionIdleTTL,
		Interval: config.SessionCleanupInterval,
		Verbose:  config.SessionCleanupVerbose,
	}
}

// Worker periodically sweeps the session store for idle sessions.
type Worker struct {
	store  interfaces.SessionStore
	config Config
	logger *logging.ChanneledLogger
}

// NewWorker creates an idle session eviction worker.
func NewWorker(store interfaces.SessionStore, cfg Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		store:  store,
		config: cfg,
		logger: logger,
	}
}

// Start runs the sweep loop until the context is cancelled. It returns
// immediately when eviction is disabled.
func (w *Worker) Start(ctx context.Context) {
	if w.config.IdleTTL <= 0 {
		if w.logger != nil {
			w.logger.Cache().Info("Idle session eviction disabled")
		}
		return
	}

	if w.logger != nil {
		w.logger.Cache().Info("Idle session eviction started",
			"idleTTL", w.config.IdleTTL.String(),
			"interval", w.config.Interval.String())
	}

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if w.logger != nil {
				w.logger.Shutdown().Info("Idle session eviction stopped")
			}
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep evicts every session idle longer than the configured TTL and
// returns the number evicted.
func (w *Worker) Sweep() int {
	cutoff := time.Now().UTC().Add(-w.config.IdleTTL)
	evicted := 0

	w.store.Range(func(userID string, session *conversation.Context) bool {
		session.Mu.Lock()
		idle := session.LastUpdateTime.Before(cutoff)
		state := session.State
		session.Mu.Unlock()

		if idle {
			w.store.Delete(userID)
			evicted++
			if w.logger != nil && w.config.Verbose {
				w.logger.Cache().Info("Idle session evicted", "userId", userID, "state", string(state))
			}
		}
		return true
	})

	if w.logger != nil && evicted > 0 {
		w.logger.Cache().Info("Idle session sweep completed",
			"evicted", evicted, "remaining", w.store.Count())
	}
	return evicted
}
