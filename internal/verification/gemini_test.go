package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}

func TestExtractFirstJSON(t *testing.T) {
	got, ok := extractFirstJSON(`Here is the data: {"a": {"b": 2}} trailing`)
	assert.True(t, ok)
	assert.Equal(t, `{"a": {"b": 2}}`, got)

	got, ok = extractFirstJSON(`[1, 2, 3]`)
	assert.True(t, ok)
	assert.Equal(t, `[1, 2, 3]`, got)

	_, ok = extractFirstJSON("no json here")
	assert.False(t, ok)

	_, ok = extractFirstJSON("{unbalanced")
	assert.False(t, ok)
}
