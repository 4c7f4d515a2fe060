package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wcrbrm/serve-delayed/internal/static"
	"github.com/wcrbrm/serve-delayed/pkg/types"
)

const (
	corsAllowMethods = "GET, POST"
	corsAllowHeaders = "Content-Type, Accept"
	corsMaxAge       = "36000"
)

type entryKey struct{}

// accessEntry collects what the handlers learn about a request so the
// access log can report it after the response.
type accessEntry struct {
	id       string
	start    time.Time
	delay    time.Duration
	target   *static.Target
	canceled bool
}

func entryFrom(ctx context.Context) *accessEntry {
	entry, _ := ctx.Value(entryKey{}).(*accessEntry)
	return entry
}

// accessLog logs one line per request and hands a record to the recorder.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := &accessEntry{id: uuid.NewString(), start: time.Now()}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("X-Request-Id", entry.id)

		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), entryKey{}, entry)))

		elapsed := time.Since(entry.start)
		status := ww.Status()
		if status == 0 && !entry.canceled {
			status = http.StatusOK
		}

		fields := logrus.Fields{
			"request_id": entry.id,
			"method":     r.Method,
			"path":       r.URL.RequestURI(),
			"status":     status,
			"bytes":      ww.BytesWritten(),
			"duration":   elapsed.String(),
			"remote":     r.RemoteAddr,
			"referer":    r.Referer(),
			"user_agent": r.UserAgent(),
		}
		if entry.target != nil {
			fields["resolved"] = entry.target.Path
			fields["fallback"] = !entry.target.Existed
		}
		if entry.delay > 0 {
			fields["delay"] = entry.delay.String()
		}
		if entry.canceled {
			fields["canceled"] = true
		}
		s.log.WithFields(fields).Infof("%s %s %d", r.Method, r.URL.Path, status)

		if s.recorder == nil {
			return
		}
		rec := &types.RequestRecord{
			ID:         entry.id,
			Method:     r.Method,
			Path:       r.URL.RequestURI(),
			Status:     status,
			Bytes:      int64(ww.BytesWritten()),
			DelayMs:    entry.delay.Milliseconds(),
			DurationMs: elapsed.Milliseconds(),
			Remote:     r.RemoteAddr,
			CreatedAt:  entry.start,
		}
		if entry.target != nil {
			rec.Resolved = entry.target.Path
			rec.Fallback = !entry.target.Existed
		}
		if err := s.recorder.RecordRequest(context.WithoutCancel(r.Context()), rec); err != nil {
			s.log.WithError(err).WithField("request_id", entry.id).Warn("failed to record request")
		}
	})
}

// corsMiddleware adds CORS headers and answers preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if origin := r.Header.Get("Origin"); origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
		} else {
			h.Set("Access-Control-Allow-Origin", "*")
		}
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)

		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Max-Age", corsMaxAge)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
