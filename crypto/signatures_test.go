package crypto

import (
	"testing"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	identity, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}

	secret := []byte("sixteen byte sec")
	signature, err := Sign(identity.Key, secret)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if len(signature) != SignatureSize {
		t.Fatalf("signature length = %d, want %d", len(signature), SignatureSize)
	}

	if !Verify(identity.Cert, secret, signature) {
		t.Fatalf("Verify rejected a valid signature")
	}
}

func TestVerifyRejectsTamperedData(t *testing.T) {
	identity, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}

	secret := []byte("sixteen byte sec")
	signature, err := Sign(identity.Key, secret)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	tampered := append([]byte{}, secret...)
	tampered[0] ^= 0xFF
	if Verify(identity.Cert, tampered, signature) {
		t.Fatalf("Verify accepted a signature over different data")
	}

	other, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	if Verify(other.Cert, secret, signature) {
		t.Fatalf("Verify accepted a signature under the wrong certificate")
	}
}

func TestCertSignatureAndParsePEM(t *testing.T) {
	identity, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}

	if len(CertSignature(identity.Cert)) == 0 {
		t.Fatalf("certificate signature is empty")
	}

	parsed, err := ParseCertPEM(identity.CertPEM)
	if err != nil {
		t.Fatalf("ParseCertPEM failed: %v", err)
	}
	if !parsed.Equal(identity.Cert) {
		t.Fatalf("parsed certificate does not match original")
	}

	if _, err := ParseCertPEM([]byte("not a pem")); err == nil {
		t.Fatalf("expected error for invalid PEM input")
	}
}
