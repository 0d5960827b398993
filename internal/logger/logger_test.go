package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
		"bogus": zapcore.InfoLevel,
	} {
		if got := ParseLevel(in); got != want {
			t.Errorf("%q: got %v, want %v", in, got, want)
		}
	}
}

func TestBuildConsole(t *testing.T) {
	var buf bytes.Buffer
	log := Build(Config{Level: "info", Console: &buf})
	log.Debug("hidden")
	log.Info("stage done", zap.Int("leaves", 64))
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message logged at info level")
	}
	if !strings.Contains(out, "stage done") || !strings.Contains(out, "64") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestBuildFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	log := Build(Config{Level: "debug", File: DefaultFileConfig(path)})
	log.Debug("refined", zap.Int("cells", 73))
	if err := log.Sync(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"cells":73`) {
		t.Errorf("unexpected log file %q", b)
	}
}

func TestBuildNop(t *testing.T) {
	log := Build(Config{})
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger without outputs should be disabled")
	}
}
