package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/devraider/dataroom/internal/api/presenter"
	"github.com/devraider/dataroom/internal/core"
)

// handleListAudits retrieves audit log entries. Only auditors that keep their
// entries queryable (the in-memory one) support this; file and noop auditors
// answer with a 501.
func (s *Server) handleListAudits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	querier, ok := s.auditor.(core.AuditQuerier)
	if !ok {
		presenter.Error(w, r, "configured auditor does not support querying", http.StatusNotImplemented)
		return
	}

	q := r.URL.Query()
	limit := 50
	if limitStr := q.Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v <= 0 {
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = v
	}

	filterCorrelationID := q.Get("correlation_id")
	filterAction := q.Get("action")
	filterFingerprint := q.Get("fingerprint")
	filterUserID := q.Get("user_id")

	var entries []core.AuditEntry
	var err error

	if filterCorrelationID != "" || filterAction != "" || filterFingerprint != "" || filterUserID != "" {
		entries, err = querier.Find(func(entry core.AuditEntry) bool {
			if filterCorrelationID != "" && entry.ID != filterCorrelationID {
				return false
			}
			if filterAction != "" && entry.Action != filterAction {
				return false
			}
			if filterFingerprint != "" && entry.TokenFingerprint != filterFingerprint {
				return false
			}
			if filterUserID != "" && strconv.FormatInt(entry.UserID, 10) != filterUserID {
				return false
			}
			return true
		}, limit)
	} else {
		entries, err = querier.GetRecent(limit)
	}

	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve audit logs")
		presenter.Error(w, r, "failed to retrieve audit logs", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, entries, http.StatusOK)
}
