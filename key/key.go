package key

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Size is the length of a Key in bytes.
const Size = sha256.Size

// EncodedLen is the length of a Key's base64 form.
const EncodedLen = 43

var encoding = base64.RawURLEncoding

// Key is a 256-bit content identity. The zero value is a valid (if unlikely) Key.
type Key struct {
	value [Size]byte
}

// New returns the Key for data.
func New(data []byte) Key {
	return Key{value: sha256.Sum256(data)}
}

// NewString returns the Key for the bytes of s.
func NewString(s string) Key {
	return New([]byte(s))
}

// Bytes returns a copy of the raw digest.
func (k Key) Bytes() [Size]byte {
	return k.value
}

// Base64 returns the canonical URL-safe, unpadded base64 form of k.
func (k Key) Base64() string {
	return encoding.EncodeToString(k.value[:])
}

// String returns k.Base64().
func (k Key) String() string {
	return k.Base64()
}

// FromBase64 decodes s, which must be the canonical form of exactly Size bytes. ok is false for anything else, including padded or standard-alphabet base64.
func FromBase64(s string) (k Key, ok bool) {
	if len(s) != EncodedLen {
		return Key{}, false
	}
	// Strict rejects non-zero trailing bits, so each Key has exactly one accepted form.
	n, err := encoding.Strict().Decode(k.value[:], []byte(s))
	if err != nil || n != Size {
		return Key{}, false
	}
	return k, true
}

// MarshalText implements encoding.TextMarshaler using the base64 form.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.Base64()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It returns an error if text is not a canonical Key encoding.
func (k *Key) UnmarshalText(text []byte) error {
	decoded, ok := FromBase64(string(text))
	if !ok {
		return fmt.Errorf("invalid key %q", text)
	}
	*k = decoded
	return nil
}
