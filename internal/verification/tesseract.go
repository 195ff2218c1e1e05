package verification

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// TesseractRecognizer is the offline fallback strategy. The engine is a
// single long-lived worker shared by the whole process: initialization is
// expensive and each instance holds significant memory, so recognition calls
// are serialized behind a mutex rather than spawning parallel workers.
type TesseractRecognizer struct {
	mu       sync.Mutex
	client   *gosseract.Client
	language string
}

var (
	localOCR     *TesseractRecognizer
	localOCROnce sync.Once
)

// LocalOCR returns the process-wide Tesseract worker.
func LocalOCR() *TesseractRecognizer {
	localOCROnce.Do(func() {
		localOCR = &TesseractRecognizer{language: "eng"}
	})
	return localOCR
}

func (t *TesseractRecognizer) Name() string { return "tesseract" }

// Recognize claims the worker, lazily initializing the engine on first use,
// and releases it when done. Concurrent callers block until the worker is
// free; this bounds memory at one engine instance.
func (t *TesseractRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client == nil {
		client := gosseract.NewClient()
		if err := client.SetLanguage(t.language); err != nil {
			client.Close()
			return "", fmt.Errorf("failed to set OCR language %q: %w", t.language, err)
		}
		t.client = client
	}

	if err := t.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set OCR image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases the engine. Only called at process shutdown.
func (t *TesseractRecognizer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client != nil {
		err := t.client.Close()
		t.client = nil
		return err
	}
	return nil
}
