package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// CloudinaryUploader pushes uploaded documents to durable storage via
// Cloudinary's unsigned upload endpoint. The pipeline itself never manages
// storage; this is the signup flow's concern.
type CloudinaryUploader struct {
	CloudName    string
	UploadPreset string
	Folder       string

	client *http.Client
}

func NewCloudinaryUploader(cloudName, uploadPreset string) *CloudinaryUploader {
	return &CloudinaryUploader{
		CloudName:    cloudName,
		UploadPreset: uploadPreset,
		Folder:       "setu/verification_documents",
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether credentials were provided; uploads are skipped
// (and the buffer is used directly) when they were not.
func (u *CloudinaryUploader) Configured() bool {
	return u != nil && u.CloudName != "" && u.UploadPreset != ""
}

// Upload stores the document and returns its public URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, file []byte, filename string) (string, error) {
	if !u.Configured() {
		return "", errors.New("cloudinary not configured")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(file); err != nil {
		return "", err
	}
	_ = mw.WriteField("upload_preset", u.UploadPreset)
	_ = mw.WriteField("folder", u.Folder)
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/auto/upload", u.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cloudinary upload returned %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.URL != "" {
		return out.URL, nil
	}
	return "", errors.New("cloudinary response missing url")
}
