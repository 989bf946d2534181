package web

import (
	"net/http"

	"github.com/JonMunkholm/shelfstock/internal/web/views"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.inv.Report(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nodes)
}

// handleReportPage renders the same report as an HTML table.
func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.inv.Report(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Report(nodes).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err)
	}
}
