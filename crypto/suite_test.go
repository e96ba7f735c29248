package crypto

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"testing"
)

func TestSuiteForSelectsByGeneration(t *testing.T) {
	cases := []struct {
		major    int
		wantName string
		wantSize int
	}{
		{3, "SHA-1", 20},
		{6, "SHA-1", 20},
		{7, "SHA-256", 32},
		{8, "SHA-256", 32},
	}

	for _, tc := range cases {
		suite := SuiteFor(tc.major)
		if suite.Name() != tc.wantName {
			t.Fatalf("SuiteFor(%d) = %s, want %s", tc.major, suite.Name(), tc.wantName)
		}
		if suite.Size() != tc.wantSize {
			t.Fatalf("SuiteFor(%d) size = %d, want %d", tc.major, suite.Size(), tc.wantSize)
		}
	}
}

func TestSumConcatenatesParts(t *testing.T) {
	a := []byte("server-challenge")
	b := []byte("cert-signature")
	c := []byte("client-secret")

	joined := append(append(append([]byte{}, a...), b...), c...)

	want := sha256.Sum256(joined)
	if got := SuiteFor(7).Sum(a, b, c); !bytes.Equal(got, want[:]) {
		t.Fatalf("SHA-256 Sum mismatch")
	}

	wantLegacy := sha1.Sum(joined)
	if got := SuiteFor(4).Sum(a, b, c); !bytes.Equal(got, wantLegacy[:]) {
		t.Fatalf("SHA-1 Sum mismatch")
	}
}

func TestPINKeyIsDigestPrefix(t *testing.T) {
	var salt Salt
	copy(salt[:], bytes.Repeat([]byte{0xAB}, SecretSize))

	suite := SuiteFor(7)
	key := suite.PINKey(salt, "1234")
	if len(key) != 16 {
		t.Fatalf("PIN key length = %d, want 16", len(key))
	}

	digest := sha256.Sum256(append(salt[:], []byte("1234")...))
	if !bytes.Equal(key, digest[:16]) {
		t.Fatalf("PIN key is not the digest prefix of salt||PIN")
	}

	legacy := SuiteFor(6).PINKey(salt, "1234")
	if bytes.Equal(key, legacy) {
		t.Fatalf("expected different keys for different digest families")
	}
	if len(legacy) != 16 {
		t.Fatalf("legacy PIN key length = %d, want 16", len(legacy))
	}
}
