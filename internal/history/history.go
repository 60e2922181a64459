// Package history records calculator calls per user and lists them back.
package history

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"Ampere/internal/auth"
	"Ampere/internal/calc/calchttp"
	"Ampere/internal/logger"
	"Ampere/internal/metrics"
	"Ampere/internal/repo"
)

const (
	defaultLimit = 50
	maxLimit     = 500
	writeTimeout = 2 * time.Second
)

type Recorder struct {
	Repo    repo.HistoryRepository
	Metrics *metrics.Metrics
	Log     *logger.Logger
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func outcome(status int) string {
	switch {
	case status < 400:
		return "ok"
	case status < 500:
		return "invalid"
	default:
		return "error"
	}
}

// Track wraps a calculator handler, timing it and storing the call.
// A failed history write is logged and never fails the request.
func (rec *Recorder) Track(tool string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		elapsed := time.Since(start)

		rec.Metrics.ObserveCalculation(tool, outcome(sw.status), elapsed)

		userID, ok := auth.UserID(r.Context())
		if !ok || rec.Repo == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), writeTimeout)
		defer cancel()
		err := rec.Repo.RecordCalculation(ctx, repo.Calculation{
			UserID:   userID,
			Tool:     tool,
			Status:   sw.status,
			Duration: elapsed,
		})
		if err != nil {
			rec.Log.Warnw("history write failed", "tool", tool, "user_id", userID, "err", err)
		}
	}
}

// List returns the caller's recent calculations; ?limit= caps the count.
func (rec *Recorder) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLimit)
	}
	items, err := rec.Repo.ListCalculations(r.Context(), userID, limit)
	if err != nil {
		rec.Log.Errorw("history list failed", "user_id", userID, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	calchttp.WriteJSON(w, http.StatusOK, items)
}
