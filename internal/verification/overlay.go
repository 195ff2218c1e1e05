package verification

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"setu/internal/models"
)

// FieldOverlay re-derives the extracted field set from the raw image using an
// independent vision model. Non-empty overlay fields take precedence over the
// primary extraction.
type FieldOverlay interface {
	Name() string
	Extract(ctx context.Context, image []byte) (models.ExtractedFields, error)
}

const groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

// Digit accuracy matters more than recall here: a single misread digit in a
// registration number fails the whole match.
const groqPrompt = `Extract fields from this ID Card or Provisional Certificate. Return JSON with keys: full_name, roll_number, college_id, college_name, department, passing_year, registration_number (Reg No). IMPORTANT:
1. For 'passing_year', return ONLY the single 4-digit ending year.
2. Digit Accuracy: visual ambiguity between '9' and '3' is common. Check the top loop: if it's closed, it's a '9'. If you see '...132' and it looks like '...192', it is likely '192'.
3. Context:
   - 'registration_number': MUST be strictly numeric. Double-check every digit.
   - 'roll_number': Can be alphanumeric for ID Cards, but numeric for Certificates.
4. Transcribe exactly as appeared.`

// GroqOverlay calls a Llama vision model through Groq's OpenAI-compatible
// chat completions API. Rate-limit responses are retried a bounded number of
// times with linearly increasing backoff; any other failure aborts the
// overlay and the primary extraction stands.
type GroqOverlay struct {
	APIKey      string
	Model       string
	Endpoint    string
	MaxAttempts int
	BackoffStep time.Duration

	corr   *Corrections
	client *http.Client
}

func NewGroqOverlay(apiKey, model string, corr *Corrections) *GroqOverlay {
	return &GroqOverlay{
		APIKey:      apiKey,
		Model:       model,
		Endpoint:    groqEndpoint,
		MaxAttempts: 3,
		BackoffStep: 10 * time.Second,
		corr:        corr,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GroqOverlay) Name() string { return "groq-llama" }

var errRateLimited = errors.New("rate limited")

func (g *GroqOverlay) Extract(ctx context.Context, image []byte) (models.ExtractedFields, error) {
	var out models.ExtractedFields
	if g.APIKey == "" {
		return out, errors.New("missing GROQ_API_KEY")
	}

	for attempt := 1; attempt <= g.MaxAttempts; attempt++ {
		fields, err := g.call(ctx, image)
		if err == nil {
			return fields, nil
		}
		if !errors.Is(err, errRateLimited) {
			return out, err
		}
		wait := time.Duration(attempt) * g.BackoffStep
		fmt.Printf("overlay: rate limited, retrying in %s (attempt %d/%d)\n", wait, attempt, g.MaxAttempts)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
	return out, fmt.Errorf("overlay: max retries exceeded")
}

func (g *GroqOverlay) call(ctx context.Context, image []byte) (models.ExtractedFields, error) {
	var out models.ExtractedFields

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	body := map[string]any{
		"model": g.Model,
		"messages": []any{
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": groqPrompt},
					map[string]any{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
				},
			},
		},
		"temperature":     0,
		"stream":          false,
		"response_format": map[string]any{"type": "json_object"},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return out, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return out, err
	}
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return out, errRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("overlay API error: %s", string(raw))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &completion); err != nil {
		return out, err
	}
	if len(completion.Choices) == 0 {
		return out, errors.New("no choices in overlay response")
	}

	content := stripCodeFences(completion.Choices[0].Message.Content)
	if candidate, ok := extractFirstJSON(content); ok {
		content = candidate
	}
	obj, ok := asJSONObject(content)
	if !ok {
		return out, errors.New("overlay returned no valid JSON")
	}
	return extractFromJSON(obj, g.corr), nil
}
