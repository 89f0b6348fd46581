package handlers

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains []string
		excludes []string
	}{
		{
			name:     "leaflet sections",
			source:   "💊 **Dipirona**\n\n**Indicações:**\n• Dor\n• Febre",
			contains: []string{"<strong>Dipirona</strong>", "<strong>Indicações:</strong>", "• Dor<br>"},
		},
		{
			name:     "code block from connection error",
			source:   "1. Verifique:\n   ```\n   cd api-bula\n   npm start\n   ```",
			contains: []string{"<ol>", "<code>", "npm start"},
		},
		{
			name:     "raw html is not passed through",
			source:   "oi <script>alert(1)</script>",
			excludes: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderMarkdown(tt.source)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected %q in %q", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("did not expect %q in %q", bad, got)
				}
			}
		})
	}
}
