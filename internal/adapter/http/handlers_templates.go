package adapthttp

import (
	"net/http"

	"facturas/internal/app"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleAddTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.editor.AddTemplate(workspaceFrom(r.Context()))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"template": t})
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := s.editor.DeleteTemplate(workspaceFrom(r.Context()), id); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleToggleTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	ws := workspaceFrom(r.Context())
	if err := s.editor.ToggleSelection(ws, id); err != nil {
		writeAppError(w, err)
		return
	}
	snap := ws.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":                   true,
		"selectedCount":        snap.SelectedCount,
		"selectedTotal":        snap.SelectedTotal,
		"selectedTotalDisplay": snap.SelectedTotalDisplay,
	})
}

func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	id, field, err := editTarget(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	value, err := s.editor.BeginEdit(workspaceFrom(r.Context()), id, field)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templateId": id, "field": field, "value": value})
}

func (s *Server) handleCommitEdit(w http.ResponseWriter, r *http.Request) {
	id, field, err := editTarget(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	var body struct {
		Value string `json:"value"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeAppError(w, err)
		return
	}
	if err := s.editor.CommitEdit(workspaceFrom(r.Context()), id, field, body.Value); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	s.editor.CancelEdit(workspaceFrom(r.Context()))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func editTarget(r *http.Request) (int64, app.Field, error) {
	id, err := idParam(r)
	if err != nil {
		return 0, "", err
	}
	field, err := app.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		return 0, "", err
	}
	return id, field, nil
}
