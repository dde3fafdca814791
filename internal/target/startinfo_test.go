package target

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glthr/covrun/internal/coveragerr"
)

// validFile returns a path guaranteed to exist for the lifetime of the test.
func validFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "target.bin")
	require.NoError(t, os.WriteFile(p, []byte{0x7f}, 0644))
	return p
}

func TestNewConstructorValidPath(t *testing.T) {
	path := validFile(t)
	s, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path)
	assert.Equal(t, path, s.DisplayName)
}

func TestNewConstructorEmptyPath(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
	assert.True(t, coveragerr.Is(err, coveragerr.InvalidStartInfo))
}

func TestNewConstructorMissingPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.True(t, coveragerr.Is(err, coveragerr.InvalidStartInfo))
}

func TestWithWorkingDirNotExists(t *testing.T) {
	path := validFile(t)
	_, err := New(path, WithWorkingDir(filepath.Join(t.TempDir(), "nope")))
	require.Error(t, err)
	assert.True(t, coveragerr.Is(err, coveragerr.InvalidStartInfo))
}

func TestWithWorkingDirExists(t *testing.T) {
	path := validFile(t)
	dir := t.TempDir()
	s, err := New(path, WithWorkingDir(dir))
	require.NoError(t, err)
	assert.Equal(t, dir, s.WorkingDir)
}

func TestWithArgsAndEnv(t *testing.T) {
	path := validFile(t)
	s, err := New(path, WithArgs("-v", "x"), WithEnv(map[string]string{"FOO": "bar"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"-v", "x"}, s.Args)
	assert.Equal(t, "bar", s.Env["FOO"])
}
