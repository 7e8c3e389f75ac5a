// Package key derives content identities for the file cache.
//
// A Key is the SHA-256 digest of some input bytes. Keys compare by value and are usable as map keys. Each Key has one canonical text form: URL-safe base64 without
// padding (43 characters from A-Za-z0-9-_), which is safe to use as a directory name on every supported platform. FromBase64 accepts only that exact form.
//
// Besides New (arbitrary bytes), keys may be derived from a set of files (NewFileSet, NewDirRelativeFileSet) or composed from other keys (Combine).
package key
