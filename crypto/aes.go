package crypto

import (
	"crypto/aes"
	"errors"
	"fmt"
)

const aesKeySize = 16

// EncryptAES encrypts plaintext with AES-128-ECB, zero-padding the input up
// to the block size. ECB without authentication is mandated by the pairing
// wire format; nothing else may use these helpers.
func EncryptAES(key, plaintext []byte) ([]byte, error) {
	if len(key) != aesKeySize {
		return nil, fmt.Errorf("invalid AES key length: got %d want %d", len(key), aesKeySize)
	}
	if len(plaintext) == 0 {
		return nil, errors.New("plaintext is required")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	padded := make([]byte, roundToBlock(len(plaintext)))
	copy(padded, plaintext)

	for i := 0; i < len(padded); i += aes.BlockSize {
		block.Encrypt(padded[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}
	return padded, nil
}

// DecryptAES decrypts AES-128-ECB ciphertext. The caller slices off any
// trailing padding; block boundaries are the only length guarantee here.
func DecryptAES(key, ciphertext []byte) ([]byte, error) {
	if len(key) != aesKeySize {
		return nil, fmt.Errorf("invalid AES key length: got %d want %d", len(key), aesKeySize)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("invalid ciphertext length %d: must be a multiple of %d", len(ciphertext), aes.BlockSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += aes.BlockSize {
		block.Decrypt(plaintext[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
	}
	return plaintext, nil
}

func roundToBlock(n int) int {
	return (n + aes.BlockSize - 1) / aes.BlockSize * aes.BlockSize
}
