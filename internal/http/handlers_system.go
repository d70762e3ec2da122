package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"chitieu/internal/log"
	"chitieu/internal/storage"
)

const activityLimit = 10

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady probes the finance backend and, when configured, the
// activity journal.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})
	fail := func(name string, err error) {
		checks[name] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	if _, err := s.backend.ListWallets(ctx); err != nil {
		fail("backend", err)
	} else {
		checks["backend"] = "ok"
	}

	if s.journal == nil {
		checks["journal"] = "not_configured"
	} else if err := s.journal.Ping(ctx); err != nil {
		fail("journal", err)
	} else {
		checks["journal"] = "ok"
	}

	checks["views"] = map[string]interface{}{
		"transactions": s.txViews.Size(),
		"foundations":  s.ledgerViews.Size(),
		"budgets":      s.budgetViews.Size(),
		"reports":      s.reportViews.Size(),
		"chat":         s.chatViews.Size(),
	}
	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

type activityData struct {
	Entries []storage.ActivityEntry
}

// handleActivity lists the latest journaled writes. Without a journal it
// answers 204 and the placeholder stays empty.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	entries, err := s.journal.Recent(r.Context(), activityLimit)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Failed to read activity journal",
			log.FieldOperation, log.OpList, log.FieldError, err)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.render(w, r, "activity_list", activityData{Entries: entries})
}
