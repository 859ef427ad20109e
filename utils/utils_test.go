package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "bullets",
			input:    "**Key topics**\n- Goroutines\n- Channels",
			contains: []string{"<strong>Key topics</strong>", "<li>Goroutines</li>", "<li>Channels</li>"},
		},
		{
			name:     "raw html is dropped",
			input:    "Hello <script>alert(1)</script>",
			contains: []string{"Hello"},
			excludes: []string{"<script>"},
		},
		{
			name:     "links open in a new tab",
			input:    "[docs](https://go.dev)",
			contains: []string{`href="https://go.dev"`, `target="_blank"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(MarkdownToHTML(tt.input))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestMarkdownToHTML_Empty(t *testing.T) {
	assert.Empty(t, MarkdownToHTML("   "))
}
