package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/shelfstock/internal/core"
)

// defaultExpiringDays is used when /batches/expiring has no days parameter.
const defaultExpiringDays = 7

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	s.moveStock(w, r, s.inv.Sell)
}

func (s *Server) handleRestock(w http.ResponseWriter, r *http.Request) {
	s.moveStock(w, r, s.inv.Restock)
}

func (s *Server) handleSetShelf(w http.ResponseWriter, r *http.Request) {
	s.moveStock(w, r, s.inv.SetShelfQuantity)
}

// moveStock decodes {"quantity": n} and applies op to the {id} batch,
// answering with the updated batch.
func (s *Server) moveStock(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64, n int) (core.Batch, error)) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req quantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Quantity == nil {
		s.respondError(w, r, badRequest("quantity is required"))
		return
	}

	b, err := op(r.Context(), id, *req.Quantity)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleExpiring(w http.ResponseWriter, r *http.Request) {
	days := defaultExpiringDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, r, badRequest(fmt.Sprintf("invalid days %q", raw)))
			return
		}
		days = n
	}

	batches, err := s.inv.BatchesExpiringWithin(r.Context(), days)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}
