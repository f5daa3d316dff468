package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
)

const streamBuffer = 64

// handleStatusStream writes the status updates of one category as NDJSON
// until the client goes away.
func (s *Server) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	category := domain.StatusCategory(r.URL.Query().Get("category"))
	ch := make(chan any, streamBuffer)
	sub, err := s.Backend.OnStatusUpdate(category, func(u domain.StatusUpdate) { offer(ch, u) })
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "BAD_REQUEST"})
		return
	}
	s.stream(w, r, "status:"+string(category), sub, ch)
}

// handleSyncStream writes state sync events as NDJSON until the client goes away.
func (s *Server) handleSyncStream(w http.ResponseWriter, r *http.Request) {
	ch := make(chan any, streamBuffer)
	sub, err := s.Backend.OnStateSyncEvent(func(ev domain.SyncEvent) { offer(ch, ev) })
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.stream(w, r, "state-sync", sub, ch)
}

// offer never blocks the publisher; a client that can't keep up loses events
// and is expected to resync.
func offer(ch chan<- any, v any) {
	select {
	case ch <- v:
	default:
	}
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request, name string, sub repo.Subscription, ch <-chan any) {
	defer sub.Cancel()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "streaming unsupported"})
		return
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.Logger.Info("stream_opened", zap.String("stream", name), zap.String("remote", r.RemoteAddr))
	defer s.Logger.Info("stream_closed", zap.String("stream", name), zap.String("remote", r.RemoteAddr))

	every := s.Heartbeat
	if every <= 0 {
		every = 15 * time.Second
	}
	heartbeat := time.NewTicker(every)
	defer heartbeat.Stop()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := w.Write([]byte("\n")); err != nil {
				return
			}
		case v := <-ch:
			if err := enc.Encode(v); err != nil {
				s.Logger.Warn("stream_write_failed", zap.String("stream", name), zap.Error(err))
				return
			}
		}
		flusher.Flush()
	}
}
