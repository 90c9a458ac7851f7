package clock

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		minute int
		use24h bool
		want   string
	}{
		{"afternoon 24h", 13, 5, true, "13:05"},
		{"afternoon 12h", 13, 5, false, "01:05"},
		{"midnight 24h", 0, 0, true, "00:00"},
		{"midnight 12h", 0, 0, false, "12:00"},
		{"noon 12h", 12, 30, false, "12:30"},
		{"morning 12h", 9, 59, false, "09:59"},
		{"late 24h", 23, 59, true, "23:59"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := time.Date(2024, 5, 1, tt.hour, tt.minute, 42, 0, time.Local)
			if got := Format(ts, tt.use24h); got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs24h(t *testing.T) {
	for style, want := range map[string]bool{
		"24h":  true,
		"":     true,
		"12h":  false,
		" 12H": false,
	} {
		if got := Is24h(style); got != want {
			t.Errorf("Is24h(%q) = %v, want %v", style, got, want)
		}
	}
}
