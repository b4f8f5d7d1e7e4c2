package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileCreatesParentAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Data_Output", "table.csv")

	require.NoError(t, SafeWriteFile(path, []byte("a,b\n1,2\n")))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(b))

	require.NoError(t, SafeWriteFile(path, []byte("a,b\n")))
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(b))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestResolvePath(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "srv", "diet")
	assert.Equal(t, filepath.Join(base, "in.csv"), ResolvePath(base, "in.csv"))
	assert.Equal(t, filepath.Join(base, "Data_Output", "x.csv"), ResolvePath(base, "./Data_Output/x.csv"))

	abs := filepath.Join(string(filepath.Separator), "tmp", "x.csv")
	assert.Equal(t, abs, ResolvePath(base, abs))
	assert.Equal(t, "", ResolvePath(base, ""))
	assert.Equal(t, "rel.csv", ResolvePath("", "rel.csv"))
}

func TestExecutableDir(t *testing.T) {
	dir, err := ExecutableDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
}
