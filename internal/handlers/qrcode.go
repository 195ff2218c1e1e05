package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
)

// GET /api/v1/users/{id}/verification-qr
// PNG QR code pointing at the public verification page for the user. The
// page itself still requires a share token; the QR just saves typing the URL.
func GetVerificationQRCode(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	base := "http://localhost:3000"
	if Cfg != nil && Cfg.FrontendBaseURL != "" {
		base = Cfg.FrontendBaseURL
	}
	data := trimRightSlash(base) + "/verification/" + userID
	if token := r.URL.Query().Get("token"); token != "" {
		data += "?token=" + token
	}

	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
