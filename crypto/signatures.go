package crypto

import (
	stdcrypto "crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// SignatureSize is the length of an RSA-2048 signature on the wire.
const SignatureSize = 256

// Sign signs data with the client's RSA key using PKCS#1 v1.5 over SHA-256.
// The host verifies this during the final pairing stages regardless of the
// digest family used for the handshake itself.
func Sign(key *rsa.PrivateKey, data []byte) ([]byte, error) {
	if key == nil {
		return nil, errors.New("private key is required")
	}
	if len(data) == 0 {
		return nil, errors.New("data is required")
	}

	digest := sha256.Sum256(data)
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, stdcrypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("sign data: %w", err)
	}
	return signature, nil
}

// Verify reports whether signature is a valid PKCS#1 v1.5 SHA-256 signature
// on data under the certificate's RSA public key.
func Verify(cert *x509.Certificate, data, signature []byte) bool {
	if cert == nil || len(data) == 0 || len(signature) == 0 {
		return false
	}
	publicKey, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return false
	}

	digest := sha256.Sum256(data)
	return rsa.VerifyPKCS1v15(publicKey, stdcrypto.SHA256, digest[:], signature) == nil
}

// CertSignature returns the signature field embedded in a certificate. The
// pairing proof hashes mix in each side's certificate signature so neither
// party can splice in a different identity mid-handshake.
func CertSignature(cert *x509.Certificate) []byte {
	return cert.Signature
}

// ParseCertPEM parses the first certificate PEM block in data.
func ParseCertPEM(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("decode certificate PEM: no PEM block")
	}
	if block.Type != certificatePEMType {
		return nil, fmt.Errorf("decode certificate PEM: unexpected type %q", block.Type)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}
	return cert, nil
}
