package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"setu/internal/handlers"
	"setu/internal/middleware"
)

func RegisterRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	// Auth (public)
	r.Post("/api/auth/student/signup", handlers.StudentSignup)
	r.Post("/api/auth/alumni/signup", handlers.AlumniSignup)
	r.Post("/api/auth/login", handlers.Login)

	// Public verification data (share token required via query param)
	r.Get("/api/v1/verification-info/{id}", handlers.GetVerificationInfo)
	r.Get("/api/v1/users/{id}/verification-qr", handlers.GetVerificationQRCode)

	// Bulk CSV upload of master records (X-Admin-Key gated in handler)
	r.Post("/api/v1/master/bulk-upload", handlers.BulkUploadMaster)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Get("/api/v1/auth/me", handlers.Me)
		r.Post("/api/v1/verify-document", handlers.VerifyDocument)
		r.Get("/api/v1/verification-status", handlers.VerificationStatus)
		r.Post("/api/v1/verification/generate-share-link", handlers.GenerateShareLink)
	})
	return r
}
