package obs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestAccessLog_TruncatesOnCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	if err := os.WriteFile(path, []byte("stale\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewAccessLog(path, false); err != nil {
		t.Fatalf("NewAccessLog: %v", err)
	}
	data, _ := os.ReadFile(path)
	if len(data) != 0 {
		t.Fatalf("log not truncated: %q", data)
	}
}

func TestAccessLog_AppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	l, err := NewAccessLog(path, false)
	if err != nil {
		t.Fatalf("NewAccessLog: %v", err)
	}
	l.Line("first")
	l.Line("second")
	data, _ := os.ReadFile(path)
	if string(data) != "first\nsecond\n" {
		t.Fatalf("log contents=%q", data)
	}
}

func TestAccessLog_ConcurrentWritersKeepLinesIntact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	l, err := NewAccessLog(path, false)
	if err != nil {
		t.Fatalf("NewAccessLog: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Line(fmt.Sprintf("worker-%d-entry-%d", id, j))
			}
		}(i)
	}
	wg.Wait()
	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 8*50 {
		t.Fatalf("got %d lines, want %d", len(lines), 8*50)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "worker-") || !strings.Contains(line, "-entry-") {
			t.Fatalf("interleaved line %q", line)
		}
	}
}

func TestStamp(t *testing.T) {
	ts := time.Date(2006, time.January, 2, 15, 4, 5, 0, time.UTC)
	if got := Stamp(ts); got != "02/Jan/2006 15:04:05" {
		t.Fatalf("Stamp=%q", got)
	}
}
