package remoteconfig

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// hkdfSalt and hkdfInfo are fixed constants shared by every deployment.
var (
	hkdfSalt = []byte("pivot-remoteconfig-v1")
	hkdfInfo = []byte("api-key-encryption")
)

// deriveKey derives the 32-byte AES-256 key from licenseKey and deviceID
// via HKDF-SHA256:
// key = HKDF-SHA256(licenseKey + ":" + deviceID, salt, info).
func deriveKey(licenseKey, deviceID string) ([]byte, error) {
	secret := []byte(licenseKey + ":" + deviceID)
	r := hkdf.New(sha256.New, secret, hkdfSalt, hkdfInfo)

	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("remoteconfig: deriving key: %w", err)
	}
	return key, nil
}

// decryptAPIKey decrypts a base64(nonce||ciphertext) blob with AES-256-GCM
// under the key derived from licenseKey and deviceID.
func decryptAPIKey(encoded, licenseKey, deviceID string) (string, error) {
	key, err := deriveKey(licenseKey, deviceID)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("remoteconfig: decoding api key blob: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("remoteconfig: building cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("remoteconfig: building gcm: %w", err)
	}

	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("remoteconfig: api key blob shorter than nonce size")
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("remoteconfig: decrypting api key: %w", err)
	}
	return string(plaintext), nil
}

// encryptAPIKey is the server-side counterpart used only by tests to
// construct fixtures symmetric with decryptAPIKey.
func encryptAPIKey(plaintext, licenseKey, deviceID string) (string, error) {
	key, err := deriveKey(licenseKey, deviceID)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
