package core

// scheduler.go runs the idle-session reaper.
//
// Sessions untouched for longer than the idle TTL are saved to the store
// and dropped from memory, freeing their limiter slot. A later request for
// the same ID resumes the session from the store with its history intact.
// A session whose save fails stays live and is retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// StartReaper evicts idle sessions every interval until ctx is cancelled.
func (s *Service) StartReaper(ctx context.Context, interval time.Duration) {
	slog.Info("session reaper started",
		"interval", interval,
		"idle_ttl", s.opts.IdleTTL,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session reaper stopped")
			return
		case <-ticker.C:
			s.ReapIdle(ctx)
		}
	}
}

// ReapIdle performs one eviction pass and returns the number of sessions
// evicted.
func (s *Service) ReapIdle(ctx context.Context) int {
	start := time.Now()
	cutoff := s.now().Add(-s.opts.IdleTTL)

	s.mu.RLock()
	candidates := make([]*activeSession, 0, len(s.sessions))
	for _, as := range s.sessions {
		candidates = append(candidates, as)
	}
	s.mu.RUnlock()

	evicted := 0
	for _, as := range candidates {
		if s.evict(ctx, as, cutoff) {
			evicted++
		}
	}

	if evicted > 0 {
		slog.Info("evicted idle sessions",
			"evicted", evicted,
			"active", s.limiter.ActiveCount(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return evicted
}

func (s *Service) evict(ctx context.Context, as *activeSession, cutoff time.Time) bool {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.closed || as.lastUsed.After(cutoff) {
		return false
	}
	if err := s.persist(ctx, as); err != nil {
		slog.Error("evict failed, keeping session", "session_id", as.ID, "error", err)
		return false
	}
	s.drop(as)
	s.LogAudit(ctx, ActionSessionEvict, as.ID, "idle since "+as.lastUsed.Format(time.RFC3339))
	return true
}
