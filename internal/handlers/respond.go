package handlers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"setu/internal/config"
	"setu/internal/storage"
	"setu/internal/verification"
)

// Package-level collaborators, wired once from main.
var (
	Cfg      *config.Config
	Pipeline *verification.Pipeline
	Uploader *storage.CloudinaryUploader
)

func Init(cfg *config.Config, pipe *verification.Pipeline) {
	Cfg = cfg
	Pipeline = pipe
	Uploader = storage.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset)
}

func writeJSONResp(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func readJSONBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// formFile finds an uploaded file by its preferred field name, falling back
// to common alternatives and finally the first available file field.
// Frontends are not consistent about field naming.
func formFile(r *http.Request, preferred string, alts ...string) (multipart.File, *multipart.FileHeader, error) {
	if f, h, err := r.FormFile(preferred); err == nil {
		return f, h, nil
	}
	for _, a := range alts {
		if f, h, err := r.FormFile(a); err == nil {
			fmt.Println("upload: using alternative file field:", a)
			return f, h, nil
		}
	}
	if r.MultipartForm != nil && r.MultipartForm.File != nil {
		for k := range r.MultipartForm.File {
			if f, h, err := r.FormFile(k); err == nil {
				fmt.Println("upload: falling back to first file field:", k)
				return f, h, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("missing file field %q", preferred)
}
