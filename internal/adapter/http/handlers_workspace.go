package adapthttp

import (
	"net/http"
)

func (s *Server) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, workspaceFrom(r.Context()).Snapshot())
}

// handleTestConnection re-runs the connection check. The outcome is part of
// the snapshot, so failures still answer 200.
func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())
	err := s.sync.TestConnection(r.Context(), ws)
	writeJSON(w, http.StatusOK, map[string]any{"ok": err == nil, "workspace": ws.Snapshot()})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())
	err := s.sync.LoadAll(r.Context(), ws)
	writeJSON(w, http.StatusOK, map[string]any{"ok": err == nil, "workspace": ws.Snapshot()})
}
