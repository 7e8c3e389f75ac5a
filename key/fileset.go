package key

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// NewFileSet returns a Key for the files at paths. Path order and duplicates do not matter.
//
// Both the paths and the file contents contribute to the Key, so paths should be relative and stable across machines. Returns an error if a path cannot be read.
func NewFileSet(paths []string) (Key, error) {
	return newFileSet(paths, nil)
}

// NewDirRelativeFileSet is like NewFileSet, but only the dir-relative portion of each path is hashed. Returns an error if any path is not in dir.
//
// This allows a tree of files to be moved as a unit without changing its Key.
func NewDirRelativeFileSet(dir string, paths []string) (Key, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return Key{}, err
	}

	rel := func(p string) (string, error) {
		absP, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		r, err := filepath.Rel(absDir, absP)
		if err != nil {
			return "", err
		}
		if r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("path %q is not in dir %q", p, dir)
		}
		return r, nil
	}

	return newFileSet(paths, rel)
}

// Combine returns a Key derived from keys in order. Combine(a, b) != Combine(b, a) in general.
func Combine(keys ...Key) Key {
	h := sha256.New()
	writeLen(h, len(keys))
	for _, k := range keys {
		_, _ = h.Write(k.value[:])
	}
	return fromHash(h)
}

type fileSetEntry struct {
	path     string // as given; used to read the file
	hashPath string // slash-separated, cleaned; contributes to the Key
}

func newFileSet(paths []string, transform func(string) (string, error)) (Key, error) {
	entries := make([]fileSetEntry, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true

		hashPath := p
		if transform != nil {
			var err error
			hashPath, err = transform(p)
			if err != nil {
				return Key{}, err
			}
		}
		entries = append(entries, fileSetEntry{path: p, hashPath: path.Clean(filepath.ToSlash(hashPath))})
	}

	// Order by what is hashed, so the Key doesn't depend on how callers spelled the paths.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].hashPath != entries[j].hashPath {
			return entries[i].hashPath < entries[j].hashPath
		}
		return entries[i].path < entries[j].path
	})

	h := sha256.New()
	for _, e := range entries {
		contents, err := os.ReadFile(e.path)
		if err != nil {
			return Key{}, err
		}
		writeField(h, []byte(e.hashPath))
		writeField(h, contents)
	}
	return fromHash(h), nil
}

// writeField writes b to h, prefixed by its length, so adjacent fields can't run together.
func writeField(h hash.Hash, b []byte) {
	writeLen(h, len(b))
	_, _ = h.Write(b)
}

func writeLen(h hash.Hash, n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	_, _ = h.Write(buf[:])
}

func fromHash(h hash.Hash) Key {
	var k Key
	copy(k.value[:], h.Sum(nil))
	return k
}
