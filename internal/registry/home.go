// Package registry maps operator-chosen container names to directories
// below the tool home (~/.nuts). The mapping is structural: a container's
// location is a pure function of the tool home and its name.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nace/nuts/internal/system"
	"github.com/nace/nuts/internal/ui"
)

// ToolDirName is the tool home below the operator's home directory.
const ToolDirName = ".nuts"

// ErrHomeUnavailable means the operator's home directory could not be
// determined. Nothing else can proceed without it.
var ErrHomeUnavailable = errors.New("unable to locate home-directory")

// Home resolves and lazily creates the tool home
type Home struct {
	lookup func() (string, error)
	logger *ui.Logger

	mu  sync.Mutex
	dir string
}

// NewHome creates a resolver. A nil lookup uses os.UserHomeDir.
func NewHome(lookup func() (string, error), logger *ui.Logger) *Home {
	if lookup == nil {
		lookup = os.UserHomeDir
	}
	return &Home{lookup: lookup, logger: logger}
}

// Dir returns the tool home, creating it on first use. The result is
// cached, so later calls touch neither the environment nor the disk.
func (h *Home) Dir() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.dir != "" {
		return h.dir, nil
	}

	home, err := h.lookup()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHomeUnavailable, err)
	}
	if home == "" {
		return "", ErrHomeUnavailable
	}

	dir := filepath.Join(home, ToolDirName)
	h.logger.Debug("tool_dir: %s", dir)

	created, err := system.EnsureDir(dir, 0o700)
	if err != nil {
		return "", fmt.Errorf("failed to prepare tool dir: %w", err)
	}
	if created {
		h.logger.Debug("created tool dir %s", dir)
	}

	h.dir = dir
	return dir, nil
}
