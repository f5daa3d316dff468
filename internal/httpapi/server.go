package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
	apimw "github.com/hamed0406/sitesync/internal/httpapi/middleware"
	"github.com/hamed0406/sitesync/internal/repo"
)

// Backend is what the API serves: the mutation and monitoring surface, the
// event streams and an on-demand full sync.
type Backend interface {
	repo.Backend
	repo.EventChannel
	RequestFullSync(ctx context.Context) error
}

// Limits are per-minute request budgets with their burst sizes.
type Limits struct {
	PublicRPM, PublicBurst int
	AdminRPM, AdminBurst   int
}

type Server struct {
	Logger  *zap.Logger
	Backend Backend

	// Heartbeat is how often an idle event stream writes a blank line.
	Heartbeat time.Duration
}

func NewServer(l *zap.Logger, b Backend) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Backend: b, Heartbeat: 15 * time.Second}
}

// Router builds the HTTP handler. metrics may be nil.
func (s *Server) Router(keys apimw.Keys, metrics http.Handler, limits Limits) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apimw.RateLimit(limits.PublicRPM, limits.PublicBurst))
			r.Use(apimw.RequireAny(keys))

			r.Get("/sites", s.handleListSites)
			r.Get("/sync/status", s.handleSyncStatus)
			r.Get("/events/status", s.handleStatusStream)
			r.Get("/events/sync", s.handleSyncStream)
		})

		r.Group(func(r chi.Router) {
			r.Use(apimw.RateLimit(limits.AdminRPM, limits.AdminBurst))
			r.Use(apimw.RequireAdmin(keys))

			r.Post("/sites", s.handleAddSite)
			r.Patch("/sites/{site}", s.handleUpdateSite)
			r.Delete("/sites/{site}", s.handleRemoveSite)
			r.Post("/sites/{site}/start", s.siteCommand(s.Backend.StartSiteMonitoring))
			r.Post("/sites/{site}/stop", s.siteCommand(s.Backend.StopSiteMonitoring))
			r.Delete("/sites/{site}/monitors/{monitor}", s.handleRemoveMonitor)
			r.Post("/sites/{site}/monitors/{monitor}/start", s.monitorCommand(s.Backend.StartMonitoring))
			r.Post("/sites/{site}/monitors/{monitor}/stop", s.monitorCommand(s.Backend.StopMonitoring))
			r.Post("/sites/{site}/monitors/{monitor}/check", s.monitorCommand(s.Backend.CheckSiteNow))
			r.Get("/backup", s.handleDownloadBackup)
			r.Post("/backup/restore", s.handleRestoreBackup)
			r.Post("/sync/full", s.handleFullSync)
		})
	})

	return r
}

// ---- sites ----

func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.Backend.GetSites(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

func (s *Server) handleAddSite(w http.ResponseWriter, r *http.Request) {
	var site domain.Site
	if !s.decode(w, r, &site) {
		return
	}
	created, err := s.Backend.AddSite(r.Context(), site)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Logger.Info("site_added", zap.String("site", created.Identifier), zap.Int("monitors", len(created.Monitors)))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateSite(w http.ResponseWriter, r *http.Request) {
	var update domain.SiteUpdate
	if !s.decode(w, r, &update) {
		return
	}
	updated, err := s.Backend.UpdateSite(r.Context(), chi.URLParam(r, "site"), update)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleRemoveSite(w http.ResponseWriter, r *http.Request) {
	if err := s.Backend.RemoveSite(r.Context(), chi.URLParam(r, "site")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveMonitor(w http.ResponseWriter, r *http.Request) {
	updated, err := s.Backend.RemoveMonitor(r.Context(), chi.URLParam(r, "site"), chi.URLParam(r, "monitor"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) siteCommand(fn func(context.Context, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r.Context(), chi.URLParam(r, "site")); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) monitorCommand(fn func(context.Context, string, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r.Context(), chi.URLParam(r, "site"), chi.URLParam(r, "monitor")); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ---- backup ----

func (s *Server) handleDownloadBackup(w http.ResponseWriter, r *http.Request) {
	payload, err := s.Backend.DownloadBackup(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	var payload domain.BackupPayload
	if !s.decode(w, r, &payload) {
		return
	}
	sites, err := s.Backend.RestoreBackup(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

// ---- sync ----

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.Backend.GetSyncStatus(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleFullSync(w http.ResponseWriter, r *http.Request) {
	if err := s.Backend.RequestFullSync(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ---- helpers ----

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8<<20))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad payload", Code: "BAD_REQUEST"})
		return false
	}
	return true
}

// statusFor maps a validation code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case domain.CodeSiteNotFound, domain.CodeMonitorNotFound:
		return http.StatusNotFound
	case domain.CodeCannotRemoveLast:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, statusFor(ve.Code), errorBody{Error: ve.Error(), Code: ve.Code})
		return
	}
	s.Logger.Error("request_failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}
