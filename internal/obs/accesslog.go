package obs

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// AccessLog appends one line per handled connection to a log file, and
// optionally echoes each line to stdout. The file is truncated when the
// log is created and reopened for each append. An internal lock keeps
// concurrent workers from interleaving partial lines.
type AccessLog struct {
	path string
	echo bool
	mu   sync.Mutex
}

// NewAccessLog creates (truncating) the log file at path.
func NewAccessLog(path string, echo bool) (*AccessLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("obs: create access log: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &AccessLog{path: path, echo: echo}, nil
}

// Line appends one complete log line.
func (l *AccessLog) Line(msg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_, werr := f.WriteString(msg + "\n")
	cerr := f.Close()
	if l.echo {
		fmt.Println(msg)
	}
	if werr != nil {
		return werr
	}
	return cerr
}

// Stamp formats a timestamp the way the access log expects it,
// e.g. 02/Jan/2006 15:04:05.
func Stamp(t time.Time) string {
	return t.Format("02/Jan/2006 15:04:05")
}
