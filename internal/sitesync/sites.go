package sitesync

import (
	"context"
	"sync"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
)

// Sites wires one Store to the components that read and write it.
type Sites struct {
	Store       *Store
	Coordinator *Coordinator
	Status      *StatusUpdateManager
	Operations  *Operations
	Monitoring  *MonitoringActions

	mu              sync.Mutex
	unsubscribeSync func()
}

func New(backend repo.Backend, events repo.EventChannel, opts ...Option) *Sites {
	o := newOptions(opts)
	store := NewStore(WithOnChange(o.onChange))
	opts = append(opts[:len(opts):len(opts)], WithUpdater(store.Update))

	coord := NewCoordinator(backend, events, store.Sites, store.SetSites, opts...)
	return &Sites{
		Store:       store,
		Coordinator: coord,
		Status:      NewStatusUpdateManager(events, coord.ApplyStatusUpdate, opts...),
		Operations:  NewOperations(backend, store.Sites, store.SetSites, opts...),
		Monitoring:  NewMonitoringActions(backend, coord.FullResyncSites, opts...),
	}
}

// Start subscribes to sync events and status updates, then runs a first full
// resync. The status subscription result is returned even when the resync
// fails.
func (s *Sites) Start(ctx context.Context, handler func(domain.StatusUpdate)) (SubscribeResult, error) {
	s.mu.Lock()
	if s.unsubscribeSync == nil {
		unsub, err := s.Coordinator.SubscribeToSyncEvents()
		if err != nil {
			s.mu.Unlock()
			return SubscribeResult{}, err
		}
		s.unsubscribeSync = unsub
	}
	s.mu.Unlock()

	res := s.SubscribeToStatusUpdates(handler)
	return res, s.Coordinator.FullResyncSites(ctx)
}

func (s *Sites) SubscribeToStatusUpdates(handler func(domain.StatusUpdate)) SubscribeResult {
	return s.Status.Subscribe(handler)
}

func (s *Sites) UnsubscribeFromStatusUpdates() UnsubscribeResult {
	return s.Status.Unsubscribe()
}

// Close detaches every listener. It is safe to call more than once.
func (s *Sites) Close() {
	s.mu.Lock()
	unsub := s.unsubscribeSync
	s.unsubscribeSync = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	s.Status.Unsubscribe()
}
