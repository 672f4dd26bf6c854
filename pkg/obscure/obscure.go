// Package obscure provides the reversible transform applied to stored user
// content blobs. It is an obfuscation layer, not encryption: it keeps casual
// eyes out of database dumps and nothing more.
package obscure

import "encoding/base64"

// key is a fixed keystream; Decode(Encode(s)) == s for every s.
var key = []byte("4fKd29sLqXePzR1mW8vTbY5nC0juHgAo")

func xor(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[i] = b[i] ^ key[i%len(key)]
	}
	return out
}

// Encode obfuscates s into a URL-safe string.
func Encode(s string) string {
	return base64.RawURLEncoding.EncodeToString(xor([]byte(s)))
}

// Decode reverses Encode. It fails only on input that did not come from
// Encode in the first place.
func Decode(s string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(xor(raw)), nil
}
