package httpclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
)

const maxLine = 8 << 20

// StatusCategories lists every category the daemon publishes.
func (c *Client) StatusCategories() []domain.StatusCategory {
	return append([]domain.StatusCategory(nil), domain.StatusCategories...)
}

// OnStatusUpdate opens the status stream for category. It returns once the
// daemon has accepted the stream; afterwards the stream reconnects on its own
// until the subscription is cancelled.
func (c *Client) OnStatusUpdate(category domain.StatusCategory, handler func(domain.StatusUpdate)) (repo.Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("nil handler for %q", category)
	}
	path := "/api/events/status?category=" + url.QueryEscape(string(category))
	return c.subscribe(string(category), path, func(line []byte) error {
		var u domain.StatusUpdate
		if err := json.Unmarshal(line, &u); err != nil {
			return err
		}
		handler(u)
		return nil
	})
}

func (c *Client) OnStateSyncEvent(handler func(domain.SyncEvent)) (repo.Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("nil state sync handler")
	}
	return c.subscribe("state-sync", "/api/events/sync", func(line []byte) error {
		var ev domain.SyncEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return err
		}
		handler(ev)
		return nil
	})
}

// stream is a live NDJSON subscription. Cancel stops it and waits for the
// reader goroutine, so it must not be called from the handler.
type stream struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *stream) Cancel() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

func (c *Client) subscribe(name, path string, onLine func([]byte) error) (repo.Subscription, error) {
	ctx, cancel := context.WithCancel(context.Background())
	body, err := c.openStream(ctx, name, path)
	if err != nil {
		cancel()
		return nil, err
	}

	st := &stream{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(st.done)
		c.pump(ctx, name, path, body, onLine)
	}()
	c.logger.Info("stream_attached", zap.String("stream", name))
	return st, nil
}

func (c *Client) openStream(ctx context.Context, name, path string) (io.ReadCloser, error) {
	op := "stream " + name
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/x-ndjson")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, callError(op, resp)
	}
	return resp.Body, nil
}

// pump reads body until it ends, then reconnects, until ctx is cancelled.
func (c *Client) pump(ctx context.Context, name, path string, body io.ReadCloser, onLine func([]byte) error) {
	for {
		err := c.readLines(name, body, onLine)
		body.Close()
		if ctx.Err() != nil {
			return
		}
		c.logger.Warn("stream_disconnected", zap.String("stream", name), zap.Error(err))

		body, err = c.reconnect(ctx, name, path)
		if err != nil {
			return
		}
		c.logger.Info("stream_reconnected", zap.String("stream", name))
	}
}

func (c *Client) reconnect(ctx context.Context, name, path string) (io.ReadCloser, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.reconnectMin
	b.MaxInterval = c.reconnectMax
	b.MaxElapsedTime = 0
	b.Reset()

	var body io.ReadCloser
	err := backoff.Retry(func() error {
		rc, err := c.openStream(ctx, name, path)
		if err != nil {
			return err
		}
		body = rc
		return nil
	}, backoff.WithContext(b, ctx))
	return body, err
}

func (c *Client) readLines(name string, body io.Reader, onLine func([]byte) error) error {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		c.deliver(name, line, onLine)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return io.EOF
}

func (c *Client) deliver(name string, line []byte, onLine func([]byte) error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("stream_handler_panic", zap.String("stream", name), zap.Any("panic", r))
		}
	}()
	if err := onLine(line); err != nil {
		c.logger.Warn("stream_bad_line", zap.String("stream", name), zap.Error(err))
	}
}
