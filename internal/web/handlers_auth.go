package web

import (
	"net/http"
)

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Valid bool `json:"valid"`
}

// handleLogin checks a name/password pair. A wrong pair is a normal
// answer ({"valid": false}), not an error status.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	ok, err := s.auth.Verify(r.Context(), req.Name, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Valid: ok})
}
