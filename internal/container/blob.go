package container

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Write stores data under id, replacing any previous content.
func (c *Container) Write(id string, data []byte) error {
	path, err := c.blobPath(id)
	if err != nil {
		return err
	}

	if c.aead != nil {
		data, err = seal(c.aead, data, []byte(id))
		if err != nil {
			return err
		}
	}
	return writeFileAtomic(path, data)
}

// Read returns the content stored under id
func (c *Container) Read(id string) ([]byte, error) {
	path, err := c.blobPath(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, id)
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", id, err)
	}

	if c.aead == nil {
		return data, nil
	}
	plain, err := unseal(c.aead, data, []byte(id))
	if err != nil {
		return nil, fmt.Errorf("blob %s failed verification: %v", id, err)
	}
	return plain, nil
}

// Delete removes the blob stored under id
func (c *Container) Delete(id string) error {
	path, err := c.blobPath(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrBlobNotFound, id)
		}
		return fmt.Errorf("failed to delete blob %s: %w", id, err)
	}
	return nil
}

// List returns all blob ids, sorted
func (c *Container) List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(c.dir, blobDir))
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.Type().IsRegular() && validateID(e.Name()) == nil {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (c *Container) blobPath(id string) (string, error) {
	if c.hdr == nil {
		return "", errors.New("container is closed")
	}
	if err := validateID(id); err != nil {
		return "", err
	}
	return filepath.Join(c.dir, blobDir, id), nil
}

func validateID(id string) error {
	if id == "" || strings.HasPrefix(id, ".") || strings.ContainsAny(id, "/\\\x00") {
		return fmt.Errorf("invalid blob id %q", id)
	}
	return nil
}
