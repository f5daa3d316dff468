package backend

import (
	"sync"

	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/repo"
)

const subscriberBufferCap = 128

// topic fans values out to subscribers. Each subscriber has its own buffered
// channel drained by its own goroutine, so a slow handler never blocks
// publish; when a buffer is full the value is dropped for that subscriber.
type topic[T any] struct {
	name   string
	logger *zap.Logger

	mu     sync.Mutex
	subs   map[uint64]chan T
	nextID uint64
}

func newTopic[T any](name string, logger *zap.Logger) *topic[T] {
	return &topic[T]{name: name, logger: logger, subs: make(map[uint64]chan T)}
}

func (t *topic[T]) subscribe(handler func(T)) repo.Subscription {
	ch := make(chan T, subscriberBufferCap)

	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = ch
	t.mu.Unlock()

	go t.deliver(id, ch, handler)

	var once sync.Once
	return repo.SubscriptionFunc(func() {
		once.Do(func() { t.unsubscribe(id) })
	})
}

func (t *topic[T]) deliver(id uint64, ch <-chan T, handler func(T)) {
	for v := range ch {
		t.call(id, handler, v)
	}
}

func (t *topic[T]) call(id uint64, handler func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("subscriber_panic", zap.String("topic", t.name), zap.Uint64("subscriber", id), zap.Any("panic", r))
		}
	}()
	handler(v)
}

func (t *topic[T]) unsubscribe(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ch, ok := t.subs[id]; ok {
		delete(t.subs, id)
		close(ch)
	}
}

// publish reports how many subscribers got v and how many had a full buffer.
func (t *topic[T]) publish(v T) (delivered, dropped int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range t.subs {
		select {
		case ch <- v:
			delivered++
		default:
			dropped++
		}
	}
	return delivered, dropped
}

func (t *topic[T]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// closeAll detaches every subscriber.
func (t *topic[T]) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
}
