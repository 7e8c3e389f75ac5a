package filecache

import (
	"errors"
	"fmt"
)

// ErrCorrupt matches any *CorruptionError via errors.Is.
var ErrCorrupt = errors.New("file cache corrupted")

// CorruptionError reports that the on-disk layout under a cache root does not match what a FileCache expects. It is only returned by Open.
//
// I/O failures are never reported as a CorruptionError; they are returned as-is from package os.
type CorruptionError struct {
	Path   string // offending path (the cache root itself, or an entry under it)
	Reason string // ex: "unexpected file"
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("file cache error: %s: %s", e.Reason, e.Path)
}

func (e *CorruptionError) Is(target error) bool {
	return target == ErrCorrupt
}

func corruptf(path string, format string, args ...any) *CorruptionError {
	return &CorruptionError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
