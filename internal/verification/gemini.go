package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiPrompt asks for the exact seven-key schema of ExtractedFields so the
// response can bypass regex extraction entirely.
const geminiPrompt = `Analyze this image of a Student ID Card or Provisional Certificate.
Extract the following fields and return ONLY a valid JSON object. Do not include markdown formatting.

Fields to extract:
- full_name (Student Name - Name ONLY, no labels)
- roll_number (Roll No / ID No)
- college_id (College ID / Registration ID)
- college_name (Name of Institute/College)
- department (Department/Stream - STRICTLY return only the code e.g. 'CSE', 'ECE'. NEVER include 'Address', 'Road', 'Dist', 'Pin' or multiline text.)
- passing_year (Year of completion/passing)
- registration_number (Reg No - mostly for certificates)

If a field is not visible, return an empty string "".
Fix any obvious OCR typos (e.g., "0" vs "O", "1" vs "I").
Ensure values are clean strings without field labels.`

// GeminiRecognizer is the cloud-first OCR strategy: a vision-capable model
// returning structured JSON rather than raw text.
type GeminiRecognizer struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

func NewGeminiRecognizer(apiKey, model string) *GeminiRecognizer {
	return &GeminiRecognizer{APIKey: apiKey, Model: model, Timeout: 45 * time.Second}
}

func (g *GeminiRecognizer) Name() string { return "gemini" }

func (g *GeminiRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if strings.TrimSpace(g.APIKey) == "" {
		return "", errors.New("missing GEMINI_API_KEY")
	}

	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to init Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.Model)
	model.GenerationConfig = genai.GenerationConfig{ResponseMIMEType: "application/json"}

	resp, err := model.GenerateContent(ctx,
		genai.Text(geminiPrompt),
		genai.ImageData("jpeg", image),
	)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		} else {
			sb.WriteString(fmt.Sprint(part))
		}
	}
	jsonStr := strings.TrimSpace(sb.String())
	if jsonStr == "" {
		return "", errors.New("no text in Gemini response")
	}

	jsonStr = stripCodeFences(jsonStr)
	if candidate, ok := extractFirstJSON(jsonStr); ok {
		jsonStr = candidate
	}
	return jsonStr, nil
}

// stripCodeFences removes surrounding Markdown code fences like ```json ... ```.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
		if i := strings.IndexByte(s, '\n'); i != -1 {
			first := strings.TrimSpace(s[:i])
			// likely a language tag like json; payload lines carry brackets
			if len(first) > 0 && len(first) < 20 && !strings.ContainsAny(first, "{[") {
				s = s[i+1:]
			}
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// extractFirstJSON attempts to extract the first balanced JSON object or array.
func extractFirstJSON(s string) (string, bool) {
	if obj, ok := extractBalanced(s, '{', '}'); ok {
		return obj, true
	}
	if arr, ok := extractBalanced(s, '[', ']'); ok {
		return arr, true
	}
	return "", false
}

func extractBalanced(s string, open, close rune) (string, bool) {
	start := -1
	depth := 0
	for i, r := range s {
		if r == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if r == close {
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
