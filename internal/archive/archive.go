// Package archive keeps a flat collection of named entries inside an
// opened container. The entry index is one YAML blob; each entry's
// content is a separate blob.
package archive

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nace/nuts/internal/container"
	"gopkg.in/yaml.v3"
)

const (
	indexID       = "archive"
	indexRevision = 1
)

var (
	// ErrNoArchive means the container holds no archive index
	ErrNoArchive = errors.New("no archive in container")
	// ErrArchiveExists is returned by Create on an initialized container
	ErrArchiveExists = errors.New("archive already exists")
	// ErrEntryExists is returned by Add for a duplicate name
	ErrEntryExists = errors.New("entry already exists")
	// ErrEntryNotFound is returned by Get for an unknown name
	ErrEntryNotFound = errors.New("entry not found")
)

// Store is the blob storage an archive lives in. *container.Container
// satisfies it.
type Store interface {
	Read(id string) ([]byte, error)
	Write(id string, data []byte) error
	Delete(id string) error
}

// Entry describes one archived item
type Entry struct {
	Name     string    `json:"name" yaml:"name"`
	Blob     string    `json:"-" yaml:"blob"`
	Size     uint64    `json:"size" yaml:"size"`
	Modified time.Time `json:"modified" yaml:"modified"`
}

type index struct {
	Revision int       `yaml:"revision"`
	Created  time.Time `yaml:"created"`
	Entries  []Entry   `yaml:"entries"`
}

// Archive is an opened archive
type Archive struct {
	store Store
	idx   *index
}

// Create writes an empty archive index into s
func Create(s Store) (*Archive, error) {
	if _, err := s.Read(indexID); err == nil {
		return nil, ErrArchiveExists
	} else if !errors.Is(err, container.ErrBlobNotFound) {
		return nil, err
	}

	a := &Archive{
		store: s,
		idx: &index{
			Revision: indexRevision,
			Created:  time.Now().UTC().Truncate(time.Second),
		},
	}
	if err := a.save(); err != nil {
		return nil, err
	}
	return a, nil
}

// Open loads the archive index from s
func Open(s Store) (*Archive, error) {
	data, err := s.Read(indexID)
	if err != nil {
		if errors.Is(err, container.ErrBlobNotFound) {
			return nil, ErrNoArchive
		}
		return nil, fmt.Errorf("failed to read archive index: %w", err)
	}

	var idx index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to decode archive index: %w", err)
	}
	if idx.Revision != indexRevision {
		return nil, fmt.Errorf("unsupported archive revision %d", idx.Revision)
	}
	return &Archive{store: s, idx: &idx}, nil
}

// Created returns the creation time of the archive
func (a *Archive) Created() time.Time {
	return a.idx.Created
}

// List returns all entries sorted by name
func (a *Archive) List() []Entry {
	entries := make([]Entry, len(a.idx.Entries))
	copy(entries, a.idx.Entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Add stores data as a new entry called name
func (a *Archive) Add(name string, data []byte, modified time.Time) (Entry, error) {
	if name == "" {
		return Entry{}, fmt.Errorf("entry name must not be empty")
	}
	if _, ok := a.find(name); ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryExists, name)
	}

	entry := Entry{
		Name:     name,
		Blob:     "entry-" + uuid.NewString(),
		Size:     uint64(len(data)),
		Modified: modified.UTC().Truncate(time.Second),
	}
	if err := a.store.Write(entry.Blob, data); err != nil {
		return Entry{}, fmt.Errorf("failed to store %s: %w", name, err)
	}

	a.idx.Entries = append(a.idx.Entries, entry)
	if err := a.save(); err != nil {
		a.idx.Entries = a.idx.Entries[:len(a.idx.Entries)-1]
		a.store.Delete(entry.Blob)
		return Entry{}, err
	}
	return entry, nil
}

// Get returns the content of the named entry
func (a *Archive) Get(name string) ([]byte, error) {
	entry, ok := a.find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	return a.store.Read(entry.Blob)
}

func (a *Archive) find(name string) (Entry, bool) {
	for _, e := range a.idx.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func (a *Archive) save() error {
	data, err := yaml.Marshal(a.idx)
	if err != nil {
		return fmt.Errorf("failed to encode archive index: %w", err)
	}
	if err := a.store.Write(indexID, data); err != nil {
		return fmt.Errorf("failed to write archive index: %w", err)
	}
	return nil
}
