package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zombor/kr-receipts/internal/bizno"
	"github.com/zombor/kr-receipts/internal/classify"
	"github.com/zombor/kr-receipts/internal/dates"
)

const (
	maxUploadSize = int64(50 << 20) // high-resolution phone photos
	maxTextSize   = int64(1 << 20)
)

// errorResponse is the JSON body for failed requests; Code lets clients
// show a different message per validation failure
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// corsError writes a plain-text error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, code int, message, errCode string) {
	setCORSHeaders(w)
	writeJSON(w, code, errorResponse{Error: message, Code: errCode})
}

// validationCode maps core validation errors to stable client-facing codes
func validationCode(err error) string {
	switch {
	case errors.Is(err, bizno.ErrInvalidFormat):
		return "INVALID_FORMAT"
	case errors.Is(err, bizno.ErrInvalidChecksum):
		return "INVALID_CHECKSUM"
	case errors.Is(err, dates.ErrEmptyInput):
		return "EMPTY_INPUT"
	case errors.Is(err, dates.ErrUnsupportedFormat):
		return "UNSUPPORTED_FORMAT"
	default:
		return ""
	}
}

// decodeBody decodes a size-limited JSON request body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxTextSize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body", "")
		return false
	}
	return true
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListReceipts returns stored receipts, optionally filtered by ?type=
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	typ := classify.ReceiptType(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("type"))))
	receipts, err := s.service.ListReceipts(typ)
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

// contentTypeFor guesses a MIME type from the file extension when the client sent none
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleUploadReceipt handles receipt upload
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeJSONError(w, http.StatusBadRequest, "Error parsing form", "")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeJSONError(w, http.StatusBadRequest, "No file was selected. Please choose a file to upload.", "")
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		writeJSONError(w, http.StatusBadRequest, "File is too large. Maximum size is 50MB.", "")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeJSONError(w, http.StatusInternalServerError, "Error reading file. Please try again.", "")
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFor(header.Filename)
	}

	receipt, err := s.service.ProcessReceipt(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing receipt", "filename", header.Filename, "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	setCORSHeaders(w)
	writeJSON(w, http.StatusCreated, receipt)
}

// handleGetReceipt returns a single receipt
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.service.GetReceipt(r.PathValue("id"))
	if err != nil {
		corsError(w, "Receipt not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// handleReclassify re-runs analysis over a stored receipt's text
func (s *Server) handleReclassify(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.service.Reclassify(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			corsError(w, "Receipt not found", http.StatusNotFound)
			return
		}
		slog.Error("Error reclassifying receipt", "id", r.PathValue("id"), "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// handleGetReceiptFile returns the original upload for a receipt
func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetReceiptFile(r.PathValue("id"))
	if err != nil {
		corsError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteReceipt deletes a receipt
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteReceipt(r.PathValue("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			corsError(w, "Receipt not found", http.StatusNotFound)
			return
		}
		corsError(w, "Error deleting receipt", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAnalyze classifies posted text without storing anything
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, Analyze(req.Text))
}

// handleValidateBusinessNumber normalizes a business registration number
func (s *Server) handleValidateBusinessNumber(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	normalized, err := bizno.Normalize(req.Value)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error(), validationCode(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":      true,
		"normalized": normalized,
	})
}

// handleParseDate parses a receipt date string
func (s *Server) handleParseDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	d, err := dates.Parse(req.Value)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error(), validationCode(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]dates.Date{"date": d})
}
