package crypto

import (
	"crypto/sha1"
	"crypto/sha256"
)

// suiteCutoverVersion is the host generation that switched the pairing
// digest from SHA-1 to SHA-256.
const suiteCutoverVersion = 7

// Suite is the digest family used for one pairing attempt. It is selected
// once, at handshake start, from the host's major version and must not
// change between stages.
type Suite struct {
	name string
	sum  func(data []byte) []byte
	size int
}

var (
	suiteSHA1 = Suite{
		name: "SHA-1",
		sum: func(data []byte) []byte {
			digest := sha1.Sum(data)
			return digest[:]
		},
		size: sha1.Size,
	}
	suiteSHA256 = Suite{
		name: "SHA-256",
		sum: func(data []byte) []byte {
			digest := sha256.Sum256(data)
			return digest[:]
		},
		size: sha256.Size,
	}
)

// SuiteFor selects the digest family for a host generation: SHA-256 for
// generation 7 and later, SHA-1 before that.
func SuiteFor(majorVersion int) Suite {
	if majorVersion >= suiteCutoverVersion {
		return suiteSHA256
	}
	return suiteSHA1
}

// Name returns the digest family name.
func (s Suite) Name() string { return s.name }

// Size returns the digest length in bytes (20 for SHA-1, 32 for SHA-256).
func (s Suite) Size() int { return s.size }

// Sum digests the concatenation of parts.
func (s Suite) Sum(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	joined := make([]byte, 0, total)
	for _, p := range parts {
		joined = append(joined, p...)
	}
	return s.sum(joined)
}

// PINKey derives the AES-128 handshake key from a salted PIN. The full
// digest of salt||PIN is computed with the suite's hash; the key is its
// first 16 bytes.
func (s Suite) PINKey(salt Salt, pin string) []byte {
	digest := s.Sum(salt[:], []byte(pin))
	return digest[:aesKeySize]
}
