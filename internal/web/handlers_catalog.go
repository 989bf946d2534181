package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/shelfstock/internal/core"
)

type nameRequest struct {
	Name string `json:"name"`
}

type batchRequest struct {
	ExpiryDate    string `json:"expiry_date"`
	TotalQuantity int    `json:"total_quantity"`
	ShelfQuantity int    `json:"shelf_quantity"`
}

// =============================================================================
// Sections
// =============================================================================

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := s.inv.ListSections(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	sec, err := s.inv.CreateSection(r.Context(), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sec)
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.inv.DeleteSection)
}

// =============================================================================
// Types
// =============================================================================

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	sectionID, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	types, err := s.inv.ListTypes(r.Context(), sectionID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleCreateType(w http.ResponseWriter, r *http.Request) {
	sectionID, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	typ, err := s.inv.CreateType(r.Context(), sectionID, req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, typ)
}

func (s *Server) handleDeleteType(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.inv.DeleteType)
}

// =============================================================================
// Products
// =============================================================================

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	typeID, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	products, err := s.inv.ListProducts(r.Context(), typeID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	typeID, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	p, err := s.inv.CreateProduct(r.Context(), typeID, req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.inv.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.inv.DeleteProduct)
}

// =============================================================================
// Batches
// =============================================================================

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	batches, err := s.inv.ListBatches(r.Context(), productID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	expiry, err := core.ParseDate(req.ExpiryDate)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	b, err := s.inv.CreateBatch(r.Context(), productID, core.BatchInput{
		ExpiryDate:    expiry,
		TotalQuantity: req.TotalQuantity,
		ShelfQuantity: req.ShelfQuantity,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	b, err := s.inv.GetBatch(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.inv.DeleteBatch)
}

// deleteByID runs del with the {id} parameter and answers 204.
func (s *Server) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id int64) error) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := del(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
