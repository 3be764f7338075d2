package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// Base64Encoder obfuscates the envelope with standard base64. It offers
// no confidentiality and suits deployments where the store itself is
// trusted.
type Base64Encoder struct{}

func (Base64Encoder) Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func (Base64Encoder) Decode(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	return string(b), nil
}

// AESEncoder encrypts the envelope with AES-GCM under a key derived
// from a caller-supplied secret. The output is base64(nonce||ciphertext).
type AESEncoder struct {
	aead cipher.AEAD
}

// NewAESEncoder derives an AES-256 key from secret via SHA-256 and
// returns an encoder sealing with AES-GCM.
func NewAESEncoder(secret []byte) (*AESEncoder, error) {
	key := sha256.Sum256(secret)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return &AESEncoder{aead: aead}, nil
}

// Encode seals s with a random nonce. On the (practically impossible)
// failure to read randomness it returns an empty string, which decodes
// as "nothing stored" downstream.
func (e *AESEncoder) Encode(s string) string {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return ""
	}
	sealed := e.aead.Seal(nonce, nonce, []byte(s), nil)
	return base64.StdEncoding.EncodeToString(sealed)
}

// Decode reverses Encode. Tampered or truncated input yields an error.
func (e *AESEncoder) Decode(s string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	if len(raw) < e.aead.NonceSize() {
		return "", errors.New("ciphertext shorter than nonce")
	}
	nonce, data := raw[:e.aead.NonceSize()], raw[e.aead.NonceSize():]
	plain, err := e.aead.Open(nil, nonce, data, nil)
	if err != nil {
		return "", fmt.Errorf("open ciphertext: %w", err)
	}
	return string(plain), nil
}
