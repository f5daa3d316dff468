package sitesync

import (
	"sync"
	"time"

	"github.com/hamed0406/sitesync/internal/domain"
)

// Getter returns the committed collection.
type Getter func() []domain.Site

// Setter replaces the committed collection. It performs no merge.
type Setter func([]domain.Site)

// Updater runs fn against the committed collection and, when fn returns true,
// commits its result. No other write lands between the read and the commit.
type Updater func(fn func(current []domain.Site) ([]domain.Site, bool))

// Store owns one site collection. Independent stores share nothing.
type Store struct {
	mu        sync.RWMutex
	sites     []domain.Site
	lastSetAt time.Time
	onChange  func([]domain.Site)
}

type StoreOption func(*Store)

// WithOnChange registers fn to be called after every SetSites, outside the
// store lock.
func WithOnChange(fn func([]domain.Site)) StoreOption {
	return func(s *Store) {
		s.onChange = fn
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{sites: []domain.Site{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sites returns a copy of the collection. Elements are shared with the store
// and must be treated as read-only.
func (s *Store) Sites() []domain.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Site, len(s.sites))
	copy(out, s.sites)
	return out
}

func (s *Store) SetSites(sites []domain.Site) {
	next := make([]domain.Site, len(sites))
	copy(next, sites)

	s.mu.Lock()
	s.sites = next
	s.lastSetAt = time.Now().UTC()
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(s.Sites())
	}
}

// Update is the Updater for s. fn runs under the store lock and must not
// call back into s.
func (s *Store) Update(fn func(current []domain.Site) ([]domain.Site, bool)) {
	s.mu.Lock()
	current := make([]domain.Site, len(s.sites))
	copy(current, s.sites)
	next, ok := fn(current)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.sites = make([]domain.Site, len(next))
	copy(s.sites, next)
	s.lastSetAt = time.Now().UTC()
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(s.Sites())
	}
}

// lockedUpdater builds an Updater from a Getter and Setter. Writes are
// serialized only among callers sharing mu.
func lockedUpdater(mu *sync.Mutex, get Getter, set Setter) Updater {
	return func(fn func([]domain.Site) ([]domain.Site, bool)) {
		mu.Lock()
		defer mu.Unlock()
		if next, ok := fn(get()); ok {
			set(next)
		}
	}
}

// LastSetAt is the zero time until the first SetSites.
func (s *Store) LastSetAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSetAt
}
