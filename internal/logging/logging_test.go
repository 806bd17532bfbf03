package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/samdwyer/dungeonsim/internal/config"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"nonsense", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "test.log")
			log, err := New(config.LoggingConfig{Level: tt.level, Format: "console", Output: out})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !log.Core().Enabled(tt.want) {
				t.Errorf("level %s not enabled", tt.want)
			}
			if tt.want > zapcore.DebugLevel && log.Core().Enabled(tt.want-1) {
				t.Errorf("level below %s should be disabled", tt.want)
			}
		})
	}
}

func TestNewJSONWritesToOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "test.log")
	log, err := New(config.LoggingConfig{Level: "info", Format: "json", Output: out})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Info("dungeon ready")
	_ = log.Sync()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"dungeon ready"`) {
		t.Errorf("log output %q is not JSON with the message", data)
	}
}
