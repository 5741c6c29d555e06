package container

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/nace/nuts/internal/system"
	"golang.org/x/crypto/pbkdf2"
)

const (
	kdfPBKDF2SHA256 = "pbkdf2-sha256"

	// DefaultIterations is used when CreateOptions leaves Iterations unset.
	DefaultIterations = 210000
	// MinIterations is the lowest accepted iteration count.
	MinIterations = 1000

	keySize  = 32
	saltSize = 16
)

// checkValue is sealed into the header so a wrong password is detected
// on open rather than on the first blob read.
var checkValue = []byte("nuts-container-check")

func deriveKey(password, salt []byte, iterations int) *system.SecureBytes {
	return system.NewSecureBytes(pbkdf2.Key(password, salt, iterations, keySize, sha256.New))
}

func newAEAD(key *system.SecureBytes) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}

// seal returns nonce || ciphertext, authenticated against ad.
func seal(aead cipher.AEAD, plaintext, ad []byte) ([]byte, error) {
	nonce, err := randomBytes(aead.NonceSize())
	if err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, ad), nil
}

func unseal(aead cipher.AEAD, data, ad []byte) ([]byte, error) {
	n := aead.NonceSize()
	if len(data) < n+aead.Overhead() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	return aead.Open(nil, data[:n], data[n:], ad)
}
