package verification

import (
	"encoding/json"
	"strings"
)

// DocumentType selects which field-extraction ruleset applies.
type DocumentType string

const (
	DocProvisionalCert DocumentType = "PROVISIONAL_CERT"
	DocIDCard          DocumentType = "ID_CARD"
)

// Classify decides the document type from OCR output. For structured JSON
// (cloud extraction) a non-trivial registration number marks a provisional
// certificate; for raw text the phrase itself does. Ties default to ID_CARD.
func Classify(text string) DocumentType {
	if obj, ok := asJSONObject(text); ok {
		reg := strings.TrimSpace(stringValue(obj["registration_number"]))
		if len(reg) > 3 {
			return DocProvisionalCert
		}
		return DocIDCard
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "provisional certificate") || strings.Contains(lower, "provisional cert") {
		return DocProvisionalCert
	}
	return DocIDCard
}

// asJSONObject reports whether text is (possibly fence-wrapped) JSON and
// returns the decoded object.
func asJSONObject(text string) (map[string]any, bool) {
	s := stripCodeFences(strings.TrimSpace(text))
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// stringValue renders a decoded JSON value as a trimmed string; null and
// missing values become "".
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		// Years and numeric identifiers arrive as JSON numbers.
		b, _ := json.Marshal(t)
		return string(b)
	default:
		b, _ := json.Marshal(t)
		return strings.TrimSpace(string(b))
	}
}
