package atomicfile_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sassoftware/go-xar/lib/atomicfile"
)

func TestWriteFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, atomicfile.WriteFile(target, []byte("hello"), 0o640))
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
	if runtime.GOOS != "windows" {
		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	}
}

func TestCloseDiscards(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")
	f, err := atomicfile.New(target, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err), "no file without Commit")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file removed")
}

func TestOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))
	require.NoError(t, atomicfile.WriteFile(target, []byte("new"), 0o644))
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}
