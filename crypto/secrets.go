package crypto

import (
	"crypto/rand"
	"fmt"
)

// SecretSize is the length of the salt, challenges, secrets and the
// remote-input key exchanged during pairing and launch.
const SecretSize = 16

// Salt is the random value mixed into the PIN before key derivation.
type Salt [SecretSize]byte

// Challenge is a random value one side asks the other to prove it can decrypt.
type Challenge [SecretSize]byte

// Secret is the per-attempt value each side signs to prove its identity.
type Secret [SecretSize]byte

// NewSalt returns a fresh random salt.
func NewSalt() (Salt, error) {
	var s Salt
	if _, err := rand.Read(s[:]); err != nil {
		return Salt{}, fmt.Errorf("generate salt: %w", err)
	}
	return s, nil
}

// NewChallenge returns a fresh random challenge.
func NewChallenge() (Challenge, error) {
	var c Challenge
	if _, err := rand.Read(c[:]); err != nil {
		return Challenge{}, fmt.Errorf("generate challenge: %w", err)
	}
	return c, nil
}

// NewSecret returns a fresh random secret.
func NewSecret() (Secret, error) {
	var s Secret
	if _, err := rand.Read(s[:]); err != nil {
		return Secret{}, fmt.Errorf("generate secret: %w", err)
	}
	return s, nil
}

// SecretFromBytes converts a received byte slice into a Secret, validating length.
func SecretFromBytes(b []byte) (Secret, error) {
	var s Secret
	if len(b) != SecretSize {
		return Secret{}, fmt.Errorf("invalid secret length: got %d want %d", len(b), SecretSize)
	}
	copy(s[:], b)
	return s, nil
}

// NewSessionKey returns a fresh 16-byte remote-input encryption key.
func NewSessionKey() ([]byte, error) {
	key := make([]byte, SecretSize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}
	return key, nil
}
