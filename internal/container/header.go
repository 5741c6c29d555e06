package container

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	headerFile     = "header.yaml"
	blobDir        = "blobs"
	headerRevision = 1
)

type header struct {
	Revision int        `yaml:"revision"`
	ID       string     `yaml:"id"`
	Cipher   Cipher     `yaml:"cipher"`
	KDF      *kdfParams `yaml:"kdf,omitempty"`
	Check    string     `yaml:"check,omitempty"` // base64(nonce || sealed checkValue)
	Created  time.Time  `yaml:"created"`
}

type kdfParams struct {
	Algorithm  string `yaml:"algorithm"`
	Iterations int    `yaml:"iterations"`
	Salt       string `yaml:"salt"` // base64
}

func readHeader(dir string) (*header, error) {
	data, err := os.ReadFile(filepath.Join(dir, headerFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w in %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var h header
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := h.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &h, nil
}

func (h *header) validate() error {
	if h.Revision != headerRevision {
		return fmt.Errorf("unsupported revision %d", h.Revision)
	}
	if _, err := ParseCipher(string(h.Cipher)); err != nil {
		return err
	}
	if !h.Cipher.Encrypted() {
		return nil
	}

	if h.KDF == nil {
		return fmt.Errorf("missing kdf for cipher %s", h.Cipher)
	}
	if h.KDF.Algorithm != kdfPBKDF2SHA256 {
		return fmt.Errorf("unsupported kdf %q", h.KDF.Algorithm)
	}
	if h.KDF.Iterations < 1 {
		return fmt.Errorf("invalid kdf iterations %d", h.KDF.Iterations)
	}
	if _, err := base64.StdEncoding.DecodeString(h.KDF.Salt); err != nil {
		return fmt.Errorf("invalid salt: %v", err)
	}
	if _, err := base64.StdEncoding.DecodeString(h.Check); err != nil || h.Check == "" {
		return fmt.Errorf("invalid check value")
	}
	return nil
}

func writeHeader(dir string, h *header) error {
	data, err := yaml.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}
	return writeFileAtomic(filepath.Join(dir, headerFile), data)
}

// writeFileAtomic replaces path via a temp file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
