package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wcrbrm/serve-delayed/internal/static"
)

// maxDelayMillis is the largest millisecond count a time.Duration can hold.
const maxDelayMillis = uint64(math.MaxInt64 / int64(time.Millisecond))

// handleIndex serves the file named by the path tail, or index.html.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, filenameParam(r))
}

// handleDelayed holds the response back for the requested number of
// milliseconds, then behaves like handleIndex.
func (s *Server) handleDelayed(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "delay")
	ms, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid delay %q: want milliseconds as an unsigned integer", raw))
		return
	}

	delay := s.delayFor(ms)
	start := time.Now()
	entry := entryFrom(r.Context())
	if entry != nil {
		entry.delay = delay
		start = entry.start
	}

	s.log.Infof("sleeping %v", delay)
	if err := sleepUntil(r.Context(), start.Add(delay)); err != nil {
		if entry != nil {
			entry.canceled = true
		}
		s.log.WithError(err).Debug("client went away during delay")
		return
	}

	s.serveFile(w, r, filenameParam(r))
}

// delayFor converts ms to a duration, applying the configured cap.
func (s *Server) delayFor(ms uint64) time.Duration {
	delay := time.Duration(math.MaxInt64)
	if ms <= maxDelayMillis {
		delay = time.Duration(ms) * time.Millisecond
	}
	if s.maxDelay > 0 && delay > s.maxDelay {
		s.log.WithField("requested_ms", ms).WithField("applied", s.maxDelay.String()).Info("delay clamped")
		delay = s.maxDelay
	}
	return delay
}

// sleepUntil blocks until deadline or until ctx is done.
// Only the calling goroutine waits; other requests keep running.
func sleepUntil(ctx context.Context, deadline time.Time) error {
	wait := time.Until(deadline)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// serveFile resolves filename against the web root and writes the file.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, filename string) {
	target := s.resolver.Resolve(filename)
	if entry := entryFrom(r.Context()); entry != nil {
		entry.target = &target
	}

	f, err := static.Open(target.Path)
	if err != nil {
		status := http.StatusInternalServerError
		var openErr *static.Error
		if errors.As(err, &openErr) {
			status = openErr.Status
		}
		s.log.WithError(err).WithField("status", status).Debug("cannot serve file")
		writeError(w, status, http.StatusText(status))
		return
	}
	defer f.Close()

	f.ServeHTTP(w, r)
}

// filenameParam returns the wildcard tail of the route, unescaped.
// chi matches on the raw path when one is present, so the captured value
// may still carry percent-encoding.
func filenameParam(r *http.Request) string {
	name := chi.URLParam(r, "*")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
