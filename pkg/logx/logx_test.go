package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newBufferLogger(format Format) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.Format = format
	cfg.EnableColors = false
	cfg.EnableTimestamp = false
	cfg.Output = buf
	return NewLogger(cfg), buf
}

func TestConsoleFormatter_SortsFields(t *testing.T) {
	l, buf := newBufferLogger(FormatConsole)

	l.WithFields(Fields{"zeta": 1, "alpha": "a"}).WithError(errors.New("boom")).Warn("stored")

	got := buf.String()
	want := "[WARN ] stored alpha=a zeta=1 error=boom\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJSONFormatter(t *testing.T) {
	l, buf := newBufferLogger(FormatJSON)

	l.WithField("email", "a@b.c").Info("code issued")

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if decoded["level"] != "INFO" || decoded["message"] != "code issued" || decoded["email"] != "a@b.c" {
		t.Fatalf("unexpected entry: %v", decoded)
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(FormatConsole)
	l.SetLevel(LevelWarn)

	l.WithField("k", "v").Info("hidden")
	l.WithField("k", "v").Error("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatal("info entry should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Fatal("error entry should be written")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, "WARNING": LevelWarn, "off": LevelOff, "nonsense": LevelInfo}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
