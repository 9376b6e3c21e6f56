package feed

import (
	"context"
	"sync"
	"time"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
)

// Principal identifies the acting user for a single coordinator call.
// There is no ambient current user: every mutation receives its
// principal explicitly, and a nil principal means signed out.
type Principal struct {
	ID          uint
	DisplayName string
	Role        model.UserRole
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == model.RoleAdmin
}

// SessionSource reports who is currently signed in. Current returns
// nil without error when nobody is.
type SessionSource interface {
	Current(ctx context.Context) (*Principal, error)
}

// SessionWatcher polls a SessionSource and tells subscribers when the
// signed-in identity changes: sign-in, sign-out, or a switch to a
// different user. It runs until its context is cancelled.
type SessionWatcher struct {
	source   SessionSource
	interval time.Duration

	mu        sync.Mutex
	current   *Principal
	listeners []func(old, new *Principal)
}

func NewSessionWatcher(source SessionSource, interval time.Duration) *SessionWatcher {
	return &SessionWatcher{
		source:   source,
		interval: interval,
	}
}

// OnChange registers a listener. Listeners are invoked from the
// watcher's goroutine, one change at a time.
func (w *SessionWatcher) OnChange(fn func(old, new *Principal)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// Current returns the last observed principal.
func (w *SessionWatcher) Current() *Principal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Run polls until ctx is cancelled. The first poll happens immediately
// so subscribers see the initial session state without waiting a full
// interval.
func (w *SessionWatcher) Run(ctx context.Context) {
	w.poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Session watcher stopped", map[string]interface{}{
				"reason": ctx.Err().Error(),
			})
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *SessionWatcher) poll(ctx context.Context) {
	next, err := w.source.Current(ctx)
	if err != nil {
		// An unreadable session is not a sign-out. Keep the last
		// known identity and try again next tick.
		logger.Warn("Session poll failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	w.mu.Lock()
	prev := w.current
	if samePrincipal(prev, next) {
		w.mu.Unlock()
		return
	}
	w.current = next
	listeners := make([]func(old, new *Principal), len(w.listeners))
	copy(listeners, w.listeners)
	w.mu.Unlock()

	logger.Info("Session identity changed", map[string]interface{}{
		"previous": principalID(prev),
		"current":  principalID(next),
	})

	for _, fn := range listeners {
		fn(prev, next)
	}
}

func samePrincipal(a, b *Principal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Role == b.Role && a.DisplayName == b.DisplayName
}

func principalID(p *Principal) interface{} {
	if p == nil {
		return nil
	}
	return p.ID
}
