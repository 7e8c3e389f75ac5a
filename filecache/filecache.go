package filecache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/codalotl/filecache/internal/simplelogger"
	"github.com/codalotl/filecache/key"
)

// DirName is the name of the cache root directory under the caller-supplied root.
const DirName = ".file_cache"

const defaultDirPerm fs.FileMode = 0o755

var logger = simplelogger.Component("filecache")

// Options configures a FileCache. The zero value is ready to use.
type Options struct {
	// DirPerm is the permission used for the cache root and key directories (before umask). Zero means 0o755.
	DirPerm fs.FileMode
}

func (o Options) dirPerm() fs.FileMode {
	if o.DirPerm == 0 {
		return defaultDirPerm
	}
	return o.DirPerm
}

// FileCache maps keys to directories under a cache root. Create one with Reset or Open.
type FileCache struct {
	root    string // <root>/.file_cache
	dirPerm fs.FileMode

	mu   sync.Mutex
	keys map[key.Key]string // key -> directory name under root
}

// Reset establishes an empty cache at <root>/.file_cache, recursively removing anything already at that path (file or directory). root itself must exist. An empty
// root means the current working directory.
//
// Errors are I/O errors from package os.
func Reset(root string) (*FileCache, error) {
	return ResetWithOptions(root, Options{})
}

// ResetWithOptions is like Reset, with opts.
func ResetWithOptions(root string, opts Options) (*FileCache, error) {
	dir := filepath.Join(root, DirName)

	if err := os.RemoveAll(dir); err != nil {
		return nil, err
	}
	if err := os.Mkdir(dir, opts.dirPerm()); err != nil {
		return nil, err
	}

	logger.Log("reset %s", dir)
	return &FileCache{
		root:    dir,
		dirPerm: opts.dirPerm(),
		keys:    make(map[key.Key]string),
	}, nil
}

// Open reopens an existing cache at <root>/.file_cache, rebuilding the index from the names of its immediate subdirectories.
//
// If the cache root is absent or is not a directory, or any entry under it is not a directory or is not named by a valid key, Open returns a *CorruptionError
// identifying the offending path. It stops at the first such entry and never modifies the cache root. Other failures are I/O errors from package os.
//
// Symlinks to directories are accepted as key directories.
func Open(root string) (*FileCache, error) {
	return OpenWithOptions(root, Options{})
}

// OpenWithOptions is like Open, with opts.
func OpenWithOptions(root string, opts Options) (*FileCache, error) {
	dir := filepath.Join(root, DirName)

	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, corruptf(dir, "cache root does not exist")
		}
		return nil, err
	}
	if !fi.IsDir() {
		logger.Log("corrupt cache root %s: not a directory", dir)
		return nil, corruptf(dir, "cache root exists and is not a directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	keys := make(map[key.Key]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		isDir, err := entryIsDir(path, entry)
		if err != nil {
			return nil, err
		}
		if !isDir {
			logger.Log("corrupt cache %s: unexpected file %s", dir, name)
			return nil, corruptf(path, "cache corrupted (unexpected file)")
		}

		k, ok := key.FromBase64(name)
		if !ok {
			logger.Log("corrupt cache %s: invalid key path %s", dir, name)
			return nil, corruptf(path, "cache corrupted (invalid key path)")
		}
		keys[k] = name
	}

	logger.Log("opened %s with %d keys", dir, len(keys))
	return &FileCache{
		root:    dir,
		dirPerm: opts.dirPerm(),
		keys:    keys,
	}, nil
}

func entryIsDir(path string, entry fs.DirEntry) (bool, error) {
	if entry.IsDir() {
		return true, nil
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		// Dangling link.
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return fi.IsDir(), nil
}

// Root returns the cache root directory (<root>/.file_cache).
func (c *FileCache) Root() string {
	return c.root
}

// Contains reports whether k is in the index. It does not access the filesystem.
func (c *FileCache) Contains(k key.Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.keys[k]
	return ok
}

// KeyDir returns the directory for k, and whether k is in the index. It does not check that the directory still exists.
func (c *FileCache) KeyDir(k key.Key) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.keyDir(k)
}

func (c *FileCache) keyDir(k key.Key) (string, bool) {
	name, ok := c.keys[k]
	if !ok {
		return "", false
	}
	return filepath.Join(c.root, name), true
}

// Len returns the number of keys in the index.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.keys)
}

// Keys returns every key in the index, sorted by base64 form.
func (c *FileCache) Keys() []key.Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]key.Key, 0, len(c.keys))
	for k := range c.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return c.keys[out[i]] < c.keys[out[j]]
	})
	return out
}

// CreateKeyDir creates the directory for k (named k.Base64()) and adds k to the index. The index is only updated once the directory exists.
//
// It fails with an error matching fs.ErrExist if the directory is already on disk, which includes the case where k is already in the index.
func (c *FileCache) CreateKeyDir(k key.Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.createKeyDir(k)
}

func (c *FileCache) createKeyDir(k key.Key) error {
	name := k.Base64()
	if err := os.Mkdir(filepath.Join(c.root, name), c.dirPerm); err != nil {
		return err
	}
	c.keys[k] = name
	logger.Log("created %s", name)
	return nil
}

// RemoveKeyDir recursively deletes k's directory and drops k from the index. It is a no-op if k is not in the index.
//
// If deletion fails, k stays in the index so that a later call can retry.
func (c *FileCache) RemoveKeyDir(k key.Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.removeKeyDir(k)
}

func (c *FileCache) removeKeyDir(k key.Key) error {
	dir, ok := c.keyDir(k)
	if !ok {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	delete(c.keys, k)
	logger.Log("removed %s", k.Base64())
	return nil
}

// CleanKeyDir empties k's directory, keeping k in the index. It is a no-op if k is not in the index.
//
// It is RemoveKeyDir followed by CreateKeyDir. If the create step fails, k is no longer in the index and its directory is gone.
func (c *FileCache) CleanKeyDir(k key.Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.keys[k]; !ok {
		return nil
	}
	if err := c.removeKeyDir(k); err != nil {
		return err
	}
	return c.createKeyDir(k)
}
