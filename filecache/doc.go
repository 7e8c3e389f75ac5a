// Package filecache maps content keys (see package key) to dedicated directories on disk.
//
// A FileCache is rooted at <root>/.file_cache and holds one subdirectory per known key, named by the key's base64 form:
//
//	<root>/.file_cache/<key.Base64()>/
//
// There is no manifest; the directory listing is the entire persisted index. Open rebuilds the in-memory index by listing the cache root, and fails with a
// *CorruptionError if any entry is not a directory or is not named by a valid key. Reset discards whatever is at the cache root and starts empty.
//
// After Reset or Open, the in-memory index is the only source of truth: Contains and KeyDir never touch the filesystem, and KeyDir may return a path that an
// outside process has since removed. Callers handle that as an ordinary I/O error when they use the path.
//
// Entries are never evicted and directory contents are never verified. A FileCache is safe for concurrent use by multiple goroutines (calls serialize), but
// nothing coordinates two FileCache values, in one process or several, that share a root.
package filecache
