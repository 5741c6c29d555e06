package container

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nace/nuts/internal/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func password(s string) *system.SecureBytes {
	return system.NewSecureBytes([]byte(s))
}

// countingCallback returns a PasswordCallback that records its invocations.
func countingCallback(secret string, calls *int) PasswordCallback {
	return func() ([]byte, error) {
		*calls++
		return []byte(secret), nil
	}
}

func createEncrypted(t *testing.T, pw string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "vault1")
	c, err := Create(dir, CreateOptions{
		Cipher:     CipherAES256GCM,
		Iterations: MinIterations,
		Password:   password(pw),
	})
	require.NoError(t, err)
	require.NoError(t, c.Close())
	return dir
}

func TestOpenEncryptedCallsCallbackOnce(t *testing.T) {
	dir := createEncrypted(t, "correct horse")

	calls := 0
	c, err := Open(dir, countingCallback("correct horse", &calls))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 1, calls)
}

func TestOpenUnencryptedNeverCallsCallback(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plain")
	c, err := Create(dir, CreateOptions{Cipher: CipherNone})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	calls := 0
	c, err = Open(dir, countingCallback("unused", &calls))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 0, calls)
}

func TestOpenWrongPassword(t *testing.T) {
	dir := createEncrypted(t, "correct horse")

	calls := 0
	_, err := Open(dir, countingCallback("battery staple", &calls))
	require.ErrorIs(t, err, ErrWrongPassword)
	assert.Equal(t, 1, calls)
}

func TestOpenCallbackFailure(t *testing.T) {
	dir := createEncrypted(t, "pw")

	_, err := Open(dir, func() ([]byte, error) {
		return nil, assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
}

func TestOpenWithoutCallback(t *testing.T) {
	dir := createEncrypted(t, "pw")

	_, err := Open(dir, nil)
	require.ErrorIs(t, err, ErrNoPassword)
}

func TestOpenWipesPassword(t *testing.T) {
	dir := createEncrypted(t, "pw")

	secret := []byte("pw")
	c, err := Open(dir, func() ([]byte, error) { return secret, nil })
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, []byte{0, 0}, secret)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nothing"), nil)
	require.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
}

func TestOpenCorruptHeader(t *testing.T) {
	dir := createEncrypted(t, "pw")
	require.NoError(t, os.WriteFile(filepath.Join(dir, headerFile), []byte("revision: [oops"), 0o600))

	_, err := Open(dir, nil)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestOpenUnsupportedRevision(t *testing.T) {
	dir := createEncrypted(t, "pw")
	require.NoError(t, os.WriteFile(filepath.Join(dir, headerFile), []byte("revision: 9\ncipher: none\n"), 0o600))

	_, err := Open(dir, nil)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestCreateRefusesExisting(t *testing.T) {
	dir := createEncrypted(t, "pw")

	_, err := Create(dir, CreateOptions{Cipher: CipherNone})
	require.ErrorIs(t, err, ErrExists)
}

func TestCreateValidation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "c")

	_, err := Create(dir, CreateOptions{Cipher: CipherAES256GCM})
	require.ErrorIs(t, err, ErrNoPassword)

	_, err = Create(dir, CreateOptions{Cipher: CipherAES256GCM, Iterations: 10, Password: password("x")})
	require.Error(t, err)

	_, err = Create(dir, CreateOptions{Cipher: "rot13"})
	require.Error(t, err)

	assert.NoDirExists(t, dir)
}

func TestBlobRoundTripEncrypted(t *testing.T) {
	dir := createEncrypted(t, "pw")

	calls := 0
	c, err := Open(dir, countingCallback("pw", &calls))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Write("b1", []byte("hello")))

	raw, err := os.ReadFile(filepath.Join(dir, blobDir, "b1"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hello")

	got, err := c.Read("b1")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	ids, err := c.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, ids)

	require.NoError(t, c.Delete("b1"))
	_, err = c.Read("b1")
	require.ErrorIs(t, err, ErrBlobNotFound)
}

func TestBlobTamperDetected(t *testing.T) {
	dir := createEncrypted(t, "pw")
	calls := 0
	c, err := Open(dir, countingCallback("pw", &calls))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Write("b1", []byte("hello")))
	path := filepath.Join(dir, blobDir, "b1")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, err = c.Read("b1")
	assert.Error(t, err)
}

func TestBlobInvalidID(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plain")
	c, err := Create(dir, CreateOptions{Cipher: CipherNone})
	require.NoError(t, err)
	defer c.Close()

	for _, id := range []string{"", "../x", ".hidden", "a/b"} {
		assert.Error(t, c.Write(id, nil), "id %q", id)
	}
}

func TestInfoAndStat(t *testing.T) {
	dir := createEncrypted(t, "pw")

	summary, err := Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, CipherAES256GCM, summary.Cipher)
	assert.NotEmpty(t, summary.ID)

	calls := 0
	c, err := Open(dir, countingCallback("pw", &calls))
	require.NoError(t, err)
	defer c.Close()

	info, err := c.Info()
	require.NoError(t, err)
	assert.Equal(t, summary.ID, info.ID)
	assert.Equal(t, dir, info.Path)
	assert.Equal(t, kdfPBKDF2SHA256, info.KDF)
	assert.Equal(t, MinIterations, info.Iterations)
	assert.True(t, summary.Created.Equal(info.Created))
	assert.Equal(t, 0, info.Blobs)
	assert.Greater(t, info.Size, uint64(0))
}

func TestParseCipher(t *testing.T) {
	c, err := ParseCipher("none")
	require.NoError(t, err)
	assert.False(t, c.Encrypted())

	c, err = ParseCipher("aes256-gcm")
	require.NoError(t, err)
	assert.True(t, c.Encrypted())

	_, err = ParseCipher("des")
	assert.Error(t, err)
}
