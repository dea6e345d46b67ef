package obs

import (
	"bytes"
	"strings"
	"testing"
)

func TestStdLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(&buf, Warn)
	l.Logf(Info, "hidden %d", 1)
	l.Logf(Error, "shown %d", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("Info leaked through Warn filter: %q", out)
	}
	if !strings.Contains(out, "[ERROR] shown 2") {
		t.Fatalf("Error missing: %q", out)
	}
}

func TestLevelString(t *testing.T) {
	for lv, want := range map[Level]string{
		Debug: "DEBUG", Info: "INFO", Warn: "WARN", Error: "ERROR", Level(42): "UNKNOWN",
	} {
		if got := lv.String(); got != want {
			t.Fatalf("Level(%d).String()=%q, want %q", lv, got, want)
		}
	}
}
