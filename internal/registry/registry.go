package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nace/nuts/internal/system"
	"github.com/nace/nuts/internal/ui"
)

// RootDirName holds one subdirectory per container.
const RootDirName = "container.d"

// ErrInvalidName is returned for names that are not a single plain path
// segment.
var ErrInvalidName = errors.New("invalid container name")

// Registry locates containers below the tool home
type Registry struct {
	home   *Home
	logger *ui.Logger
}

// New creates a registry on top of home
func New(home *Home, logger *ui.Logger) *Registry {
	return &Registry{home: home, logger: logger}
}

// Root returns <toolhome>/container.d, creating it if needed.
func (r *Registry) Root() (string, error) {
	parent, err := r.home.Dir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(parent, RootDirName)
	r.logger.Debug("container_dir: %s", dir)

	created, err := system.EnsureDir(dir, 0o700)
	if err != nil {
		return "", fmt.Errorf("failed to prepare container dir: %w", err)
	}
	if created {
		r.logger.Debug("created container dir %s", dir)
	}
	return dir, nil
}

// ContainerDir returns the storage directory of the named container. It
// does not create it and does not check whether a container lives there;
// that is up to the container library.
func (r *Registry) ContainerDir(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	parent, err := r.Root()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(parent, name)
	r.logger.Debug("container_dir for %s: %s", name, dir)
	return dir, nil
}

// List returns the names of all registered containers, sorted.
func (r *Registry) List() ([]string, error) {
	root, err := r.Root()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && ValidateName(e.Name()) == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	r.logger.Trace("found %d container(s) in %s", len(names), root)
	return names, nil
}

// Remove deletes the named container directory and everything in it.
func (r *Registry) Remove(name string) error {
	dir, err := r.ContainerDir(name)
	if err != nil {
		return err
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no such container: %s", name)
		}
		return fmt.Errorf("failed to access %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	r.logger.Debug("removing container dir %s", dir)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove container %s: %w", name, err)
	}
	return nil
}

// ValidateName accepts only names usable as one plain path segment, so
// that every name maps to its own directory below container.d.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q must not start with a dot", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidName, name)
	}
	return nil
}
