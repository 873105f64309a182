package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"admindash/internal/core"
	"admindash/internal/log"
	"admindash/internal/services"
)

// handleProjectStream pushes the project's financials as Server-Sent Events:
// once on connect and again whenever its revenue earnings change. The
// subscription is released when the client disconnects.
func (s *Server) handleProjectStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	p, err := s.records.Project(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	updates := make(chan core.ProjectFinancials, 1)
	monitor := services.NewProjectMonitor(s.records, s.subscriber, logger, func(f core.ProjectFinancials) {
		latest(updates, f)
	})
	if err := monitor.Select(ctx, p); err != nil {
		writeError(w, r, err)
		return
	}
	defer monitor.Close()

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logger.WarnContext(ctx, "Streaming not supported", log.FieldError, err)
		return
	}

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.DebugContext(ctx, "Project stream closed", log.FieldDocumentID, p.ID)
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case f := <-updates:
			if err := writeEvent(w, "financials", f); err != nil {
				logger.DebugContext(ctx, "Project stream write failed", log.FieldError, err)
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

// latest delivers f, replacing an undelivered older value. Only the newest
// financials matter to a slow reader.
func latest(ch chan core.ProjectFinancials, f core.ProjectFinancials) {
	for {
		select {
		case ch <- f:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
