package simplelogger

import (
	"bytes"
	"fmt"
	"os"
	"sync"
)

// EnvVar names the environment variable holding the log file path.
const EnvVar = "FILECACHE_LOG_FILE"

var mu sync.Mutex

// Log appends one printf-formatted line to the file named by EnvVar, adding a
// trailing newline if format doesn't end with one. The file is opened and
// closed on every call, so it may be rotated or removed between calls.
//
// Logging is best effort: when EnvVar is unset/empty, or the path can't be
// opened for appending (ex: it is a directory), Log silently does nothing.
func Log(format string, args ...any) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return
	}

	// Serialize open/write/close to reduce interleaving within a single process.
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	var b bytes.Buffer
	_, _ = fmt.Fprintf(&b, format, args...)
	if b.Len() == 0 || b.Bytes()[b.Len()-1] != '\n' {
		_ = b.WriteByte('\n')
	}
	_, _ = f.Write(b.Bytes())
}

// Component is a Log with a fixed "<component>: " prefix, so lines from
// different packages sharing one log file can be told apart.
type Component string

// Log is like the package-level Log, with c's prefix.
func (c Component) Log(format string, args ...any) {
	Log("%s: %s", string(c), fmt.Sprintf(format, args...))
}
