package cli

import (
	"strings"
	"testing"

	"github.com/wcrbrm/serve-delayed/pkg/types"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"/short", 40, "/short"},
		{"/assets/very/long/path/to/a/bundle.js", 12, "/assets/v..."},
		{"/ünïcödé/päth", 8, "/ünïc..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestServedText(t *testing.T) {
	tests := []struct {
		name string
		rec  types.RequestRecord
		want string
	}{
		{"unresolved", types.RequestRecord{}, "-"},
		{"fallback", types.RequestRecord{Resolved: "./index.html", Fallback: true}, "index.html (fallback)"},
		{"file", types.RequestRecord{Resolved: "./app.js"}, "./app.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := servedText(&tt.rec); got != tt.want {
				t.Errorf("servedText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusText(t *testing.T) {
	if got := statusText(404); !strings.Contains(got, "404") {
		t.Errorf("statusText(404) = %q", got)
	}
	if got := statusText(0); !strings.Contains(got, "aborted") {
		t.Errorf("statusText(0) = %q", got)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}
