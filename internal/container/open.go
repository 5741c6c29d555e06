package container

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/nace/nuts/internal/system"
)

// CreateOptions configures a new container
type CreateOptions struct {
	Cipher     Cipher
	Iterations int                 // defaults to DefaultIterations
	Password   *system.SecureBytes // required unless Cipher is CipherNone; caller keeps ownership
}

// Create initializes a container in dir and returns it opened. dir is
// created if missing; a directory that already holds a header is refused.
func Create(dir string, opts CreateOptions) (*Container, error) {
	if opts.Cipher == "" {
		opts.Cipher = CipherAES256GCM
	}
	if _, err := ParseCipher(string(opts.Cipher)); err != nil {
		return nil, err
	}
	if opts.Iterations == 0 {
		opts.Iterations = DefaultIterations
	}
	if opts.Cipher.Encrypted() {
		if opts.Iterations < MinIterations {
			return nil, fmt.Errorf("iterations must be at least %d", MinIterations)
		}
		if opts.Password.Len() == 0 {
			return nil, ErrNoPassword
		}
	}

	if _, err := os.Stat(filepath.Join(dir, headerFile)); err == nil {
		return nil, fmt.Errorf("%w in %s", ErrExists, dir)
	}

	cleanup := system.NewCleanupStack()
	defer cleanup.Execute()

	created, err := system.EnsureDir(dir, 0o700)
	if err != nil {
		return nil, err
	}
	if created {
		cleanup.Add(func() error { return os.RemoveAll(dir) })
	}
	if _, err := system.EnsureDir(filepath.Join(dir, blobDir), 0o700); err != nil {
		return nil, err
	}

	c := &Container{
		dir: dir,
		hdr: &header{
			Revision: headerRevision,
			ID:       uuid.NewString(),
			Cipher:   opts.Cipher,
			Created:  time.Now().UTC().Truncate(time.Second),
		},
	}

	if opts.Cipher.Encrypted() {
		salt, err := randomBytes(saltSize)
		if err != nil {
			return nil, err
		}
		c.hdr.KDF = &kdfParams{
			Algorithm:  kdfPBKDF2SHA256,
			Iterations: opts.Iterations,
			Salt:       base64.StdEncoding.EncodeToString(salt),
		}

		err = c.unlock(opts.Password.Bytes(), salt)
		runtime.KeepAlive(opts.Password)
		if err != nil {
			return nil, err
		}
		check, err := seal(c.aead, checkValue, []byte(c.hdr.ID))
		if err != nil {
			c.Close()
			return nil, err
		}
		c.hdr.Check = base64.StdEncoding.EncodeToString(check)
	}

	if err := writeHeader(dir, c.hdr); err != nil {
		c.Close()
		return nil, err
	}

	cleanup.Clear()
	return c, nil
}

// Open opens the container stored in dir. password runs only when the
// header says the container is encrypted.
func Open(dir string, password PasswordCallback) (*Container, error) {
	hdr, err := readHeader(dir)
	if err != nil {
		return nil, err
	}

	c := &Container{dir: dir, hdr: hdr}
	if !hdr.Cipher.Encrypted() {
		return c, nil
	}

	if password == nil {
		return nil, ErrNoPassword
	}
	secret, err := password()
	if err != nil {
		return nil, fmt.Errorf("failed to get password: %w", err)
	}
	defer system.Wipe(secret)

	salt, _ := base64.StdEncoding.DecodeString(hdr.KDF.Salt)
	if err := c.unlock(secret, salt); err != nil {
		return nil, err
	}

	check, _ := base64.StdEncoding.DecodeString(hdr.Check)
	plain, err := unseal(c.aead, check, []byte(hdr.ID))
	if err != nil {
		c.Close()
		return nil, ErrWrongPassword
	}
	if string(plain) != string(checkValue) {
		c.Close()
		return nil, fmt.Errorf("%w: unexpected check value", ErrCorrupt)
	}
	return c, nil
}

func (c *Container) unlock(password, salt []byte) error {
	c.key = deriveKey(password, salt, c.hdr.KDF.Iterations)
	aead, err := newAEAD(c.key)
	if err != nil {
		c.key.Zeroize()
		return err
	}
	c.aead = aead
	return nil
}

// IsNotFound reports whether err means there is no container at all.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Summary is the part of the header readable without a password
type Summary struct {
	ID      string    `json:"id" yaml:"id"`
	Cipher  Cipher    `json:"cipher" yaml:"cipher"`
	Created time.Time `json:"created" yaml:"created"`
}

// Stat reads the header of the container in dir without opening it.
func Stat(dir string) (Summary, error) {
	hdr, err := readHeader(dir)
	if err != nil {
		return Summary{}, err
	}
	return Summary{ID: hdr.ID, Cipher: hdr.Cipher, Created: hdr.Created}, nil
}
