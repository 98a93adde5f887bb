package adapthttp

import (
	"log"
	"net/http"
)

func (s *Server) handleAddClient(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Nombre    string `json:"nombre"`
		Documento string `json:"documento"`
		Email     string `json:"email"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeAppError(w, err)
		return
	}

	c, err := s.editor.AddClient(r.Context(), workspaceFrom(r.Context()), body.Nombre, body.Documento, body.Email)
	if err != nil {
		log.Printf("add client: %v", err)
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"cliente": c})
}
