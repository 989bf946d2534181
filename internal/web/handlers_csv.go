package web

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/JonMunkholm/shelfstock/internal/logging"
)

// handleExport writes the whole inventory as a CSV download. The body is
// buffered so a mid-export failure still produces a JSON error.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.inv.ExportCSV(r.Context(), &buf); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
	}
}

// handleImport replaces the inventory with an uploaded CSV. The file may be
// sent as the "file" field of a multipart form or as the raw request body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	src, closeSrc, err := importSource(r, maxSize)
	if err != nil {
		s.respondImportError(w, r, err)
		return
	}
	defer closeSrc()

	summary, err := s.inv.ImportCSV(r.Context(), src)
	if err != nil {
		s.respondImportError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func importSource(r *http.Request, maxSize int64) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, func() {}, nil
	}

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, err
		}
		return nil, nil, badRequest("invalid multipart form")
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, badRequest("no file provided")
	}
	return file, func() { file.Close() }, nil
}

// respondImportError answers 413 when the upload exceeded the size limit.
func (s *Server) respondImportError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logging.FromContext(r.Context()).Warn("import rejected", "error", err, "limit", tooLarge.Limit)
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "File too large",
			Message: "File too large",
			Action:  "Split the file or raise IMPORT_MAX_FILE_SIZE",
			Code:    "CSV003",
			Detail:  err.Error(),
		})
		return
	}
	s.respondError(w, r, err)
}
