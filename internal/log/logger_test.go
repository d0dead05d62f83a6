package log

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		env   string
		level string
		want  zerolog.Level
	}{
		{"development", "", zerolog.DebugLevel},
		{"production", "", zerolog.InfoLevel},
		{"production", "warn", zerolog.WarnLevel},
		{"development", "bogus", zerolog.DebugLevel},
	}

	for _, tt := range tests {
		if got := resolveLevel(tt.env, tt.level); got != tt.want {
			t.Errorf("resolveLevel(%q, %q) = %s, want %s", tt.env, tt.level, got, tt.want)
		}
	}
}
