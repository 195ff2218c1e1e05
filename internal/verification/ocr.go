package verification

import (
	"context"
	"fmt"
	"strings"
)

// TextRecognizer is one OCR strategy: image bytes in, recognized text out.
// Cloud strategies may return a structured JSON object instead of free text;
// downstream extraction handles both.
type TextRecognizer interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Chain tries recognizers in rank order and short-circuits on the first one
// that yields non-empty text. Exactly one strategy's result is used per
// attempt.
type Chain struct {
	strategies []TextRecognizer
}

func NewChain(strategies ...TextRecognizer) *Chain {
	return &Chain{strategies: strategies}
}

// Recognize returns the first successful strategy's output, or an error when
// every strategy failed or produced nothing.
func (c *Chain) Recognize(ctx context.Context, image []byte) (string, error) {
	var lastErr error
	for _, s := range c.strategies {
		text, err := s.Recognize(ctx, image)
		if err != nil {
			fmt.Printf("ocr: strategy %s failed: %v\n", s.Name(), err)
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) == "" {
			fmt.Printf("ocr: strategy %s returned no text\n", s.Name())
			continue
		}
		return text, nil
	}
	if lastErr != nil {
		return "", fmt.Errorf("all OCR strategies failed: %w", lastErr)
	}
	return "", fmt.Errorf("no OCR strategy produced text")
}
