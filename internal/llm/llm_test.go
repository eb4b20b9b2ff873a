package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"bugs": []}`, `{"bugs": []}`},
		{"plain fence", "```\n{\"bugs\": []}\n```", `{"bugs": []}`},
		{"json fence", "```json\n{\"bugs\": []}\n```", `{"bugs": []}`},
		{"surrounding whitespace", "  \n```json\n{}\n```\n  ", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFence(tt.in))
		})
	}
}
