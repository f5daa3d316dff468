package sitesync

import (
	"context"
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
)

// SubscribeResult reports how many listeners a subscription asked for and how
// many the backend accepted.
type SubscribeResult struct {
	RequestedListeners int
	AttachedListeners  int
	Errors             []error
}

// Success is true only when every requested listener attached.
func (r SubscribeResult) Success() bool {
	return r.AttachedListeners == r.RequestedListeners && len(r.Errors) == 0
}

// Subscribed is true when at least one listener is live.
func (r SubscribeResult) Subscribed() bool {
	return r.AttachedListeners > 0
}

type UnsubscribeResult struct {
	Success      bool
	Unsubscribed bool
	Detached     int
}

type subscribeState int

const (
	stateIdle subscribeState = iota
	stateSubscribing
	stateSubscribed
)

// recentUpdates bounds how many delivered checks are remembered for
// de-duplication.
const recentUpdates = 256

// checkKey names one recorded check. The backend publishes the same check on
// its up/down category and again on status-changed.
type checkKey struct {
	site    string
	monitor string
	at      int64
}

type pendingSubscribe struct {
	done   chan struct{}
	result SubscribeResult
}

// StatusUpdateManager owns the subscription to per-check status updates.
// There is at most one live set of listeners at any time.
type StatusUpdateManager struct {
	events repo.EventChannel
	apply  func(context.Context, domain.StatusUpdate)
	logger *zap.Logger

	mu      sync.Mutex
	state   subscribeState
	pending *pendingSubscribe
	subs    []repo.Subscription
}

// NewStatusUpdateManager builds a manager that passes every received update
// to apply before handing it to the subscriber's handler.
func NewStatusUpdateManager(events repo.EventChannel, apply func(context.Context, domain.StatusUpdate), opts ...Option) *StatusUpdateManager {
	o := newOptions(opts)
	return &StatusUpdateManager{
		events: events,
		apply:  apply,
		logger: o.logger,
	}
}

// Subscribe attaches handler to every status category the backend emits.
// It never fails; attach errors are collected in the result. A call made
// while another Subscribe is attaching waits for it and returns its result.
// A call made while subscribed replaces the existing listeners.
func (m *StatusUpdateManager) Subscribe(handler func(domain.StatusUpdate)) SubscribeResult {
	m.mu.Lock()
	if m.state == stateSubscribing {
		p := m.pending
		m.mu.Unlock()
		m.logger.Info("status_subscribe_in_flight")
		<-p.done
		return p.result
	}
	previous := m.subs
	m.subs = nil
	m.state = stateSubscribing
	p := &pendingSubscribe{done: make(chan struct{})}
	m.pending = p
	m.mu.Unlock()

	if len(previous) > 0 {
		cancelAll(previous)
		m.logger.Info("status_resubscribe", zap.Int("detached", len(previous)))
	}

	result, subs := m.attach(handler)

	m.mu.Lock()
	m.subs = subs
	if len(subs) > 0 {
		m.state = stateSubscribed
	} else {
		m.state = stateIdle
	}
	m.pending = nil
	p.result = result
	m.mu.Unlock()
	close(p.done)

	if result.Success() {
		m.logger.Info("status_subscribe_attached",
			zap.Int("requested", result.RequestedListeners),
			zap.Int("attached", result.AttachedListeners),
		)
	} else {
		m.logger.Warn("status_subscribe_incomplete",
			zap.Int("requested", result.RequestedListeners),
			zap.Int("attached", result.AttachedListeners),
			zap.Error(multierr.Combine(result.Errors...)),
		)
	}
	return result
}

// Unsubscribe detaches every listener this manager attached. It is safe to
// call when nothing is subscribed and safe to call repeatedly.
func (m *StatusUpdateManager) Unsubscribe() UnsubscribeResult {
	m.mu.Lock()
	for m.state == stateSubscribing {
		p := m.pending
		m.mu.Unlock()
		<-p.done
		m.mu.Lock()
	}
	subs := m.subs
	m.subs = nil
	m.state = stateIdle
	m.mu.Unlock()

	if len(subs) > 0 {
		cancelAll(subs)
		m.logger.Info("status_unsubscribed", zap.Int("detached", len(subs)))
	}
	return UnsubscribeResult{Success: true, Unsubscribed: true, Detached: len(subs)}
}

// Subscribed reports whether listeners are currently attached.
func (m *StatusUpdateManager) Subscribed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == stateSubscribed
}

func (m *StatusUpdateManager) attach(handler func(domain.StatusUpdate)) (SubscribeResult, []repo.Subscription) {
	categories := m.events.StatusCategories()
	result := SubscribeResult{RequestedListeners: len(categories)}
	seen, _ := lru.New[checkKey, struct{}](recentUpdates)

	deliver := func(update domain.StatusUpdate) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("status_update_panic", zap.String("site", update.Site.Identifier), zap.Any("panic", r))
			}
		}()
		if update.MonitorID != "" && !update.Timestamp.IsZero() {
			key := checkKey{site: update.Site.Identifier, monitor: update.MonitorID, at: update.Timestamp.UnixNano()}
			if dup, _ := seen.ContainsOrAdd(key, struct{}{}); dup {
				m.logger.Debug("status_update_duplicate",
					zap.String("site", key.site),
					zap.String("monitor", key.monitor),
				)
				return
			}
		}
		m.apply(context.Background(), update)
		if handler != nil {
			handler(update)
		}
	}

	subs := make([]repo.Subscription, 0, len(categories))
	for _, category := range categories {
		sub, err := m.events.OnStatusUpdate(category, deliver)
		if err == nil && sub == nil {
			err = errors.New("no subscription handle returned")
		}
		if err != nil {
			result.Errors = append(result.Errors, &domain.SubscriptionError{Category: category, Err: err})
			continue
		}
		subs = append(subs, sub)
	}
	result.AttachedListeners = len(subs)
	return result, subs
}

func cancelAll(subs []repo.Subscription) {
	for _, s := range subs {
		s.Cancel()
	}
}
