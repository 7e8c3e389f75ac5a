package key

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_KnownDigest(t *testing.T) {
	k := NewString("foo")

	want := [Size]byte{
		0x2c, 0x26, 0xb4, 0x6b, 0x68, 0xff, 0xc6, 0x8f, 0xf9, 0x9b, 0x45, 0x3c, 0x1d, 0x30, 0x41, 0x34,
		0x13, 0x42, 0x2d, 0x70, 0x64, 0x83, 0xbf, 0xa0, 0xf9, 0x8a, 0x5e, 0x88, 0x62, 0x66, 0xe7, 0xae,
	}
	require.Equal(t, want, k.Bytes())
	require.Equal(t, "LCa0a2j_xo_5m0U8HTBBNBNCLXBkg7-g-YpeiGJm564", k.Base64())
	require.Equal(t, k.Base64(), k.String())

	decoded, ok := FromBase64(k.Base64())
	require.True(t, ok)
	require.Equal(t, k, decoded)
}

func TestNew_Deterministic(t *testing.T) {
	require.Equal(t, New([]byte("hello")), New([]byte("hello")))
	require.Equal(t, New([]byte("hello")), NewString("hello"))
	require.NotEqual(t, New([]byte("hello")), New([]byte("hello!")))
	require.NotEqual(t, New(nil), New([]byte{0}))
	require.Equal(t, New(nil), New([]byte{}))
}

func TestKey_MapKey(t *testing.T) {
	m := map[Key]int{}
	m[NewString("a")] = 1
	m[NewString("b")] = 2
	m[NewString("a")] = 3

	require.Len(t, m, 2)
	require.Equal(t, 3, m[NewString("a")])
}

func TestBytes_IsCopy(t *testing.T) {
	k := NewString("foo")
	b := k.Bytes()
	b[0] ^= 0xff
	require.Equal(t, byte(0x2c), k.Bytes()[0])
}

func TestBase64_Shape(t *testing.T) {
	for _, s := range []string{"", "a", "foo", strings.Repeat("x", 1000)} {
		enc := NewString(s).Base64()
		assert.Len(t, enc, 43)
		assert.Equal(t, EncodedLen, len(enc))
		for _, r := range enc {
			ok := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
			assert.True(t, ok, "unexpected rune %q in %q", r, enc)
		}
	}
}

func TestEncodedLen(t *testing.T) {
	require.Equal(t, base64.RawURLEncoding.EncodedLen(Size), EncodedLen)
	require.Equal(t, Size, base64.RawURLEncoding.DecodedLen(EncodedLen))
}

func TestFromBase64_RoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		k := New([]byte{byte(i), byte(i * 7)})
		decoded, ok := FromBase64(k.Base64())
		require.True(t, ok)
		require.Equal(t, k, decoded)
	}

	var zero Key
	decoded, ok := FromBase64(zero.Base64())
	require.True(t, ok)
	require.Equal(t, zero, decoded)
}

func TestFromBase64_Rejects(t *testing.T) {
	valid := NewString("foo").Base64()
	short := base64.RawURLEncoding.EncodeToString(make([]byte, 31))
	long := base64.RawURLEncoding.EncodeToString(make([]byte, 33))

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"one char", "A"},
		{"truncated", valid[:42]},
		{"extended", valid + "A"},
		{"padded", base64.URLEncoding.EncodeToString(make([]byte, Size))},
		{"std alphabet", strings.ReplaceAll(strings.ReplaceAll(valid, "-", "+"), "_", "/")},
		{"invalid char", "!" + valid[1:]},
		{"space", " " + valid[1:]},
		{"newline", valid[:20] + "\n" + valid[21:]},
		{"31 bytes", short},
		{"33 bytes", long},
		{"non-canonical trailing bits", valid[:42] + "5"},
		{"path", "/tmp/" + valid},
		{"non-ascii", strings.Repeat("é", 21) + "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ok := FromBase64(tt.in)
			require.False(t, ok)
			require.Equal(t, Key{}, k)
		})
	}
}

func TestKey_JSON(t *testing.T) {
	type record struct {
		Creates  Key            `json:"creates"`
		Requires map[Key]string `json:"requires"`
	}
	in := record{
		Creates:  NewString("out"),
		Requires: map[Key]string{NewString("in"): "input"},
	}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	require.Contains(t, string(b), `"creates":"`+NewString("out").Base64()+`"`)

	var out record
	require.NoError(t, json.Unmarshal(b, &out))
	require.Equal(t, in, out)

	var k Key
	require.Error(t, json.Unmarshal([]byte(`"nope"`), &k))
	require.Error(t, k.UnmarshalText([]byte("nope")))
	require.Equal(t, Key{}, k)
}

func FuzzFromBase64(f *testing.F) {
	f.Add("")
	f.Add("LCa0a2j_xo_5m0U8HTBBNBNCLXBkg7-g-YpeiGJm564")
	f.Add("LCa0a2j_xo_5m0U8HTBBNBNCLXBkg7-g-YpeiGJm56=")
	f.Add("====")
	f.Fuzz(func(t *testing.T, s string) {
		k, ok := FromBase64(s)
		if !ok {
			return
		}
		if k.Base64() != s {
			t.Fatalf("accepted non-canonical %q (canonical %q)", s, k.Base64())
		}
	})
}
