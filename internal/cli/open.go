package cli

import (
	"fmt"

	"github.com/nace/nuts/internal/archive"
	"github.com/nace/nuts/internal/container"
)

// OpenError is returned for any failure while opening a named container:
// resolving its directory, reading the password, or unlocking it.
type OpenError struct {
	Name string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open container %s: %v", e.Name, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// OpenContainer resolves the named container below the tool home and
// opens it. The operator is prompted for a password only if the container
// asks for one.
func (ctx *GlobalContext) OpenContainer(name string) (*container.Container, error) {
	dir, err := ctx.Registry.ContainerDir(name)
	if err != nil {
		return nil, &OpenError{Name: name, Err: err}
	}

	password := func() ([]byte, error) {
		ctx.Logger.Trace("container %s requests a password", name)
		return ctx.Prompter.AcquirePassword()
	}

	c, err := ctx.Open(dir, password)
	if err != nil {
		return nil, &OpenError{Name: name, Err: err}
	}

	ctx.Logger.Debug("opened container %s", name)
	return c, nil
}

// withContainer opens name, runs fn and closes the container again.
func (ctx *GlobalContext) withContainer(name string, fn func(*container.Container) error) error {
	c, err := ctx.OpenContainer(name)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

// withArchive opens the archive stored in the named container.
func (ctx *GlobalContext) withArchive(name string, fn func(*archive.Archive) error) error {
	return ctx.withContainer(name, func(c *container.Container) error {
		a, err := archive.Open(c)
		if err != nil {
			return fmt.Errorf("container %s: %w", name, err)
		}
		return fn(a)
	})
}
