package adapthttp

import (
	"context"
	"net/http"

	"facturas/internal/domain"
)

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	count, total, err := s.send.Request(workspaceFrom(r.Context()))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":        count,
		"total":        total,
		"totalDisplay": "$" + domain.FormatMonto(total),
	})
}

func (s *Server) handleSendCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.send.Cancel(workspaceFrom(r.Context())); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleSendConfirm(w http.ResponseWriter, r *http.Request) {
	username := sessionFrom(r.Context()).Username
	// The batch goes out even if the operator closes the tab mid-request.
	report, err := s.send.Confirm(context.WithoutCancel(r.Context()), workspaceFrom(r.Context()), username)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": report})
}

func (s *Server) handleSendDismiss(w http.ResponseWriter, r *http.Request) {
	s.send.Dismiss(workspaceFrom(r.Context()))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleSendsRecent(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 20)
	items, err := s.send.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
