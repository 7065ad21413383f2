package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/categorize"
	"github.com/cleared-dev/statements/internal/importer"
	"github.com/cleared-dev/statements/internal/logger"
	"github.com/cleared-dev/statements/internal/model"
)

// uploadField is the multipart field carrying statement files.
const uploadField = "files"

// CategorizeRequest is the body of POST /api/categorize.
type CategorizeRequest struct {
	Description string          `json:"description"`
	Merchant    string          `json:"merchant,omitempty"`
	Type        model.TxnType   `json:"type,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// processStatements handles POST /api/statements.
func (s *Server) processStatements(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "too_large", fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "No files uploaded")
		return
	}

	files := make([]importer.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, uploadedFile(fh))
	}

	res, err := s.pipeline.Process(r.Context(), files)
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Warn().Err(err).Msg("batch rejected")
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			writeJSONError(w, http.StatusUnsupportedMediaType, "unsupported_format", err.Error())
			return
		}
		writeJSONError(w, http.StatusUnprocessableEntity, "decode_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// categorize handles POST /api/categorize.
func (s *Server) categorize(w http.ResponseWriter, r *http.Request) {
	var req CategorizeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Description) == "" && strings.TrimSpace(req.Merchant) == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing description")
		return
	}

	ex := s.pipeline.Engine().Explain(categorize.Input{
		Particulars: req.Description,
		Type:        req.Type,
		Debit:       req.Debit.Abs(),
		Credit:      req.Credit.Abs(),
		Merchant:    req.Merchant,
	})
	writeJSON(w, http.StatusOK, ex)
}

// uploadedFile adapts a multipart part to an importer.File.
func uploadedFile(fh *multipart.FileHeader) importer.File {
	return importer.File{
		Name: fh.Filename,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}
