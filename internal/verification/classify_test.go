package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRawText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want DocumentType
	}{
		{"provisional phrase", "WBUT\nPROVISIONAL CERTIFICATE\nThis is to certify that ...", DocProvisionalCert},
		{"short form", "provisional cert issued by the university", DocProvisionalCert},
		{"id card", "ACADEMY OF TECHNOLOGY\nSTUDENT IDENTITY CARD\nName: OM PRAKASH MISHRA", DocIDCard},
		{"empty text", "", DocIDCard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyStructuredJSON(t *testing.T) {
	assert.Equal(t, DocProvisionalCert, Classify(`{"registration_number": "211690100110192"}`))
	assert.Equal(t, DocIDCard, Classify(`{"registration_number": ""}`))
	// Too short to be a real registration number.
	assert.Equal(t, DocIDCard, Classify(`{"registration_number": "12"}`))
	assert.Equal(t, DocIDCard, Classify(`{"full_name": "Om Prakash Mishra"}`))
}

func TestClassifyFencedJSON(t *testing.T) {
	text := "```json\n{\"registration_number\": \"211690100110192\"}\n```"
	assert.Equal(t, DocProvisionalCert, Classify(text))
}

func TestAsJSONObject(t *testing.T) {
	obj, ok := asJSONObject(`{"full_name": "A", "passing_year": 2025}`)
	assert.True(t, ok)
	assert.Equal(t, "A", stringValue(obj["full_name"]))
	assert.Equal(t, "2025", stringValue(obj["passing_year"]))
	assert.Equal(t, "", stringValue(obj["missing"]))

	_, ok = asJSONObject("just some OCR text { with a brace")
	assert.False(t, ok)

	_, ok = asJSONObject("")
	assert.False(t, ok)
}
