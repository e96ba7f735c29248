package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"time"
)

const (
	certificatePEMType = "CERTIFICATE"
	rsaPrivatePEMType  = "RSA PRIVATE KEY"

	clientKeyBits = 2048
	certValidity  = 20 * 365 * 24 * time.Hour

	// certCommonName is what GameStream-era hosts expect a client
	// certificate to be named.
	certCommonName = "NVIDIA GameStream Client"
)

// Identity is the client certificate and RSA key presented to hosts. The
// certificate PEM is sent verbatim during pairing stage 1, so it must stay
// byte-identical across runs; that is why the PEM encoding is retained.
type Identity struct {
	CertPEM []byte
	Cert    *x509.Certificate
	Key     *rsa.PrivateKey
}

// EnsureIdentity loads the client certificate and key from disk, generating
// and persisting a fresh pair on first run.
func EnsureIdentity(certPath, keyPath string) (*Identity, error) {
	identity, err := LoadIdentity(certPath, keyPath)
	if err == nil {
		return identity, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	identity, err = GenerateIdentity()
	if err != nil {
		return nil, err
	}
	if err := SaveIdentity(identity, certPath, keyPath); err != nil {
		return nil, err
	}
	return identity, nil
}

// GenerateIdentity creates a new self-signed RSA-2048 client certificate.
func GenerateIdentity() (*Identity, error) {
	key, err := rsa.GenerateKey(rand.Reader, clientKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate RSA key: %w", err)
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber:       big.NewInt(0),
		Subject:            pkix.Name{CommonName: certCommonName},
		NotBefore:          now.Add(-time.Hour),
		NotAfter:           now.Add(certValidity),
		SignatureAlgorithm: x509.SHA256WithRSA,
		KeyUsage:           x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("create client certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("parse generated certificate: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: certificatePEMType, Bytes: der})
	return &Identity{CertPEM: certPEM, Cert: cert, Key: key}, nil
}

// LoadIdentity reads a certificate and RSA key PEM pair from disk.
func LoadIdentity(certPath, keyPath string) (*Identity, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("read client certificate: %w", err)
	}
	cert, err := ParseCertPEM(certPEM)
	if err != nil {
		return nil, err
	}

	keyRaw, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read client key: %w", err)
	}
	block, _ := pem.Decode(keyRaw)
	if block == nil {
		return nil, fmt.Errorf("decode client key PEM: no PEM block")
	}
	if block.Type != rsaPrivatePEMType {
		return nil, fmt.Errorf("decode client key PEM: unexpected type %q", block.Type)
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse client key: %w", err)
	}

	return &Identity{CertPEM: certPEM, Cert: cert, Key: key}, nil
}

// SaveIdentity writes the certificate (0644) and key (0600) PEM files.
func SaveIdentity(identity *Identity, certPath, keyPath string) error {
	if identity == nil || identity.Cert == nil || identity.Key == nil {
		return errors.New("identity is incomplete")
	}

	if err := os.WriteFile(certPath, identity.CertPEM, 0o644); err != nil {
		return fmt.Errorf("write client certificate: %w", err)
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  rsaPrivatePEMType,
		Bytes: x509.MarshalPKCS1PrivateKey(identity.Key),
	})
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return fmt.Errorf("write client key: %w", err)
	}

	return nil
}

// TLSCertificate returns the identity as a TLS client certificate.
func (i *Identity) TLSCertificate() tls.Certificate {
	return tls.Certificate{
		Certificate: [][]byte{i.Cert.Raw},
		PrivateKey:  i.Key,
	}
}
