package digest

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("Beta ships Friday.", "")
	if !strings.Contains(p, "New Content:\nBeta ships Friday.") {
		t.Error("BuildPrompt() should embed the content")
	}
	if !strings.Contains(p, "None provided.") {
		t.Error("BuildPrompt() should fall back to a placeholder when context is empty")
	}
	for _, header := range []string{"Summary of Changes", "Outstanding Action Items:", "New Action Items:"} {
		if !strings.Contains(p, header) {
			t.Errorf("BuildPrompt() missing section header %q", header)
		}
	}

	p = BuildPrompt("x", "(Risks)")
	if strings.Contains(p, "None provided.") {
		t.Error("BuildPrompt() should use the given context")
	}
	if !strings.Contains(p, "(Risks)") {
		t.Error("BuildPrompt() should embed the context")
	}
}

func TestFormatContext(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   string
	}{
		{name: "none", titles: nil, want: ""},
		{name: "one", titles: []string{"Risks"}, want: "(Risks)"},
		{name: "several", titles: []string{"Risks", "", "Hiring"}, want: "(Risks) \n (Hiring)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatContext(tt.titles); got != tt.want {
				t.Errorf("FormatContext() = %q, want %q", got, tt.want)
			}
		})
	}
}
