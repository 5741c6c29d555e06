package registry

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nace/nuts/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *ui.Logger {
	return ui.NewLogger(ui.LoggingConfig{Output: io.Discard})
}

func fixedHome(dir string, calls *int) func() (string, error) {
	return func() (string, error) {
		*calls++
		return dir, nil
	}
}

func TestHomeDirIdempotent(t *testing.T) {
	base := t.TempDir()
	calls := 0
	home := NewHome(fixedHome(base, &calls), testLogger())

	first, err := home.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, ".nuts"), first)
	assert.DirExists(t, first)

	second, err := home.Dir()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "home must be resolved once per process")
}

func TestHomeDirExistingDirectory(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, ".nuts"), 0o700))

	calls := 0
	dir, err := NewHome(fixedHome(base, &calls), testLogger()).Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, ".nuts"), dir)
}

func TestHomeDirUnavailable(t *testing.T) {
	home := NewHome(func() (string, error) {
		return "", errors.New("$HOME is not defined")
	}, testLogger())

	_, err := home.Dir()
	require.ErrorIs(t, err, ErrHomeUnavailable)
	assert.Contains(t, err.Error(), "$HOME is not defined")

	_, err = NewHome(func() (string, error) { return "", nil }, testLogger()).Dir()
	require.ErrorIs(t, err, ErrHomeUnavailable)
}

func TestHomeDirUnavailableCreatesNothing(t *testing.T) {
	base := t.TempDir()
	reg := New(NewHome(func() (string, error) {
		return "", errors.New("no home")
	}, testLogger()), testLogger())

	_, err := reg.ContainerDir("vault1")
	require.ErrorIs(t, err, ErrHomeUnavailable)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHomeDirCollidesWithFile(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, ".nuts"), nil, 0o600))

	calls := 0
	_, err := NewHome(fixedHome(base, &calls), testLogger()).Dir()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrHomeUnavailable)
}

func TestHomeDefaultsToUserHomeDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HOME", base)

	dir, err := NewHome(nil, testLogger()).Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, ".nuts"), dir)
}

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	base := t.TempDir()
	calls := 0
	return New(NewHome(fixedHome(base, &calls), testLogger()), testLogger()), base
}

func TestRootCreated(t *testing.T) {
	reg, base := newTestRegistry(t)

	root, err := reg.Root()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, ".nuts", "container.d"), root)
	assert.DirExists(t, root)

	again, err := reg.Root()
	require.NoError(t, err)
	assert.Equal(t, root, again)
}

func TestContainerDirNotCreated(t *testing.T) {
	reg, base := newTestRegistry(t)

	dir, err := reg.ContainerDir("vault1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, ".nuts", "container.d", "vault1"), dir)
	assert.NoDirExists(t, dir)
	assert.DirExists(t, filepath.Dir(dir))
}

func TestContainerDirDistinct(t *testing.T) {
	reg, _ := newTestRegistry(t)

	names := []string{"vault1", "vault2", "Vault1", "a b", "x-y_z.1"}
	seen := make(map[string]string)
	for _, name := range names {
		dir, err := reg.ContainerDir(name)
		require.NoError(t, err)
		if other, ok := seen[dir]; ok {
			t.Fatalf("%q and %q map to %s", name, other, dir)
		}
		seen[dir] = name
	}
}

func TestContainerDirRejectsInvalidNames(t *testing.T) {
	reg, _ := newTestRegistry(t)

	for _, name := range []string{"", ".", "..", "../escape", "a/b", `a\b`, ".hidden", "nul\x00"} {
		_, err := reg.ContainerDir(name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestList(t *testing.T) {
	reg, _ := newTestRegistry(t)

	names, err := reg.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	root, err := reg.Root()
	require.NoError(t, err)
	for _, name := range []string{"zeta", "alpha"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0o700))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray-file"), nil, 0o600))

	names, err = reg.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}

func TestRemove(t *testing.T) {
	reg, _ := newTestRegistry(t)

	dir, err := reg.ContainerDir("vault1")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blobs"), 0o700))

	require.NoError(t, reg.Remove("vault1"))
	assert.NoDirExists(t, dir)

	err = reg.Remove("vault1")
	assert.EqualError(t, err, "no such container: vault1")
}
