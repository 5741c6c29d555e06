package system

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureBytesZeroize(t *testing.T) {
	raw := []byte("hunter2")
	sb := NewSecureBytes(raw)
	assert.Equal(t, 7, sb.Len())

	sb.Zeroize()
	assert.Equal(t, 0, sb.Len())
	assert.Nil(t, sb.Bytes())
	assert.Equal(t, make([]byte, 7), raw, "backing array must be overwritten")

	// Zeroize on nil and twice is a no-op.
	var nilSB *SecureBytes
	nilSB.Zeroize()
	sb.Zeroize()
}

func TestSecureBytesEqual(t *testing.T) {
	a := NewSecureBytes([]byte("secret"))
	b := NewSecureBytes([]byte("secret"))
	c := NewSecureBytes([]byte("other"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestCleanupStackOrder(t *testing.T) {
	var order []int
	s := NewCleanupStack()
	s.Add(func() error { order = append(order, 1); return nil })
	s.Add(func() error { order = append(order, 2); return errors.New("boom") })
	s.Add(func() error { order = append(order, 3); return nil })

	err := s.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestCleanupStackClear(t *testing.T) {
	called := false
	s := NewCleanupStack()
	s.Add(func() error { called = true; return nil })
	s.Clear()

	require.NoError(t, s.Execute())
	assert.False(t, called)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.0 KB", FormatSize(1024))
	assert.Equal(t, "1.5 MB", FormatSize(1536*1024))
	assert.Equal(t, "2.0 GB", FormatSize(2*1024*1024*1024))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tool")

	created, err := EnsureDir(dir, 0o700)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureDir(dir, 0o700)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureDirFileCollision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := EnsureDir(path, 0o700)
	assert.Error(t, err)
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), make([]byte, 10), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b"), make([]byte, 5), 0o600))

	size, err := DirSize(dir)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), size)
}
