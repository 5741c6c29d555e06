// Package container implements password-protected containers stored in a
// plain directory: a YAML header plus one file per blob.
package container

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"time"

	"github.com/nace/nuts/internal/system"
)

var (
	// ErrNotFound means the directory holds no container header.
	ErrNotFound = errors.New("container not found")
	// ErrExists means a container is already initialized in the directory.
	ErrExists = errors.New("container already exists")
	// ErrCorrupt means the header cannot be parsed or is inconsistent.
	ErrCorrupt = errors.New("corrupt container header")
	// ErrWrongPassword means authentication against the header failed.
	ErrWrongPassword = errors.New("wrong password")
	// ErrNoPassword means an encrypted container was opened without a way
	// to ask for its password.
	ErrNoPassword = errors.New("a password is required to open the container")
	// ErrBlobNotFound is returned by Read and Delete for unknown blob ids.
	ErrBlobNotFound = errors.New("blob not found")
)

// PasswordCallback supplies a secret on demand. Open calls it at most
// once, and only for encrypted containers. Open wipes the returned bytes
// when it is done with them.
type PasswordCallback func() ([]byte, error)

// Cipher selects how blobs are protected
type Cipher string

const (
	CipherNone      Cipher = "none"
	CipherAES256GCM Cipher = "aes256-gcm"
)

// ParseCipher validates a cipher name from the command line
func ParseCipher(s string) (Cipher, error) {
	switch c := Cipher(s); c {
	case CipherNone, CipherAES256GCM:
		return c, nil
	}
	return "", fmt.Errorf("unsupported cipher: %s (use %s or %s)", s, CipherNone, CipherAES256GCM)
}

// Encrypted reports whether the cipher needs a password
func (c Cipher) Encrypted() bool {
	return c != CipherNone
}

// Container is an opened container
type Container struct {
	dir  string
	hdr  *header
	key  *system.SecureBytes
	aead cipher.AEAD
}

// Info describes an opened container
type Info struct {
	ID         string    `json:"id" yaml:"id"`
	Path       string    `json:"path" yaml:"path"`
	Cipher     Cipher    `json:"cipher" yaml:"cipher"`
	KDF        string    `json:"kdf,omitempty" yaml:"kdf,omitempty"`
	Iterations int       `json:"iterations,omitempty" yaml:"iterations,omitempty"`
	Created    time.Time `json:"created" yaml:"created"`
	Blobs      int       `json:"blobs" yaml:"blobs"`
	Size       uint64    `json:"size" yaml:"size"`
}

// Dir returns the storage directory
func (c *Container) Dir() string {
	return c.dir
}

// Info collects header fields and storage usage
func (c *Container) Info() (Info, error) {
	if c.hdr == nil {
		return Info{}, fmt.Errorf("container is closed")
	}

	ids, err := c.List()
	if err != nil {
		return Info{}, err
	}
	size, err := system.DirSize(c.dir)
	if err != nil {
		return Info{}, err
	}

	info := Info{
		ID:      c.hdr.ID,
		Path:    c.dir,
		Cipher:  c.hdr.Cipher,
		Created: c.hdr.Created,
		Blobs:   len(ids),
		Size:    size,
	}
	if c.hdr.KDF != nil {
		info.KDF = c.hdr.KDF.Algorithm
		info.Iterations = c.hdr.KDF.Iterations
	}
	return info, nil
}

// Close wipes the derived key. The container cannot be used afterwards.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	c.key.Zeroize()
	c.key = nil
	c.aead = nil
	c.hdr = nil
	return nil
}
