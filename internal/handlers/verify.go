package handlers

import (
	"io"
	"net/http"
	"strings"

	"setu/internal/cache"
	"setu/internal/db"
	"setu/internal/middleware"
	"setu/internal/models"
	"setu/internal/verification"
)

// VerifyDocument: POST /api/v1/verify-document (protected)
// multipart/form-data with file field "document", or a JSON body carrying a
// "document_url". Re-runs verification for the authenticated user.
func VerifyDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(uint)
	if !ok || userID == 0 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var user models.Users
	if err := db.DB.First(&user, userID).Error; err != nil {
		writeJSONResp(w, http.StatusNotFound, map[string]any{"error": "user not found"})
		return
	}

	var src verification.ImageSource
	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "failed to parse form or file too large"})
			return
		}
		file, _, err := formFile(r, "document", "certificate", "id_card", "file", "upload", "image")
		if err != nil {
			writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "missing file field 'document'"})
			return
		}
		defer file.Close()
		b, err := io.ReadAll(file)
		if err != nil || len(b) == 0 {
			writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "failed to read uploaded file"})
			return
		}
		src = verification.FromBuffer(b)
	default:
		var body struct {
			DocumentURL string `json:"document_url"`
		}
		if err := readJSONBody(r, &body); err != nil || strings.TrimSpace(body.DocumentURL) == "" {
			// Fall back to the document stored at signup.
			if user.VerificationDocument == "" {
				writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "no document supplied and none on record"})
				return
			}
			src = verification.FromURL(user.VerificationDocument)
		} else {
			src = verification.FromURL(body.DocumentURL)
		}
	}

	result := Pipeline.VerifyDocument(r.Context(), user.ID, src, user.Role)
	writeJSONResp(w, http.StatusOK, result)
}

// VerificationStatus: GET /api/v1/verification-status (protected)
// Serves the cached attempt summary when present, else the persisted user
// row.
func VerificationStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(uint)
	if !ok || userID == 0 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if summary, ok := cache.GetSummary(r.Context(), userID); ok {
		writeJSONResp(w, http.StatusOK, map[string]any{
			"verification_status": summary.Status,
			"is_verified":         summary.IsVerified,
			"reason":              summary.Reason,
			"updated_at":          summary.UpdatedAt,
			"source":              "cache",
		})
		return
	}

	var user models.Users
	if err := db.DB.First(&user, userID).Error; err != nil {
		writeJSONResp(w, http.StatusNotFound, map[string]any{"error": "user not found"})
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"verification_status": user.VerificationStatus,
		"is_verified":         user.IsVerified,
		"source":              "database",
	})
}
