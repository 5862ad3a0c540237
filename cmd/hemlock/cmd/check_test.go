package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFileAcceptsValidSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.hml")
	require.NoError(t, os.WriteFile(path, []byte(`let x = 1 + 2;`), 0o644))

	assert.NoError(t, checkFile(path))
}

func TestCheckFileReportsParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.hml")
	require.NoError(t, os.WriteFile(path, []byte(`let x = ;`), 0o644))

	err := checkFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ParseError")
}

func TestCollectHmlFilesCollectsEveryFileInDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"file10.hml", "file2.hml", "file1.hml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`let x = 1;`), 0o644))
	}

	files, err := collectHmlFiles([]string{dir}, true)
	require.NoError(t, err)
	require.Len(t, files, 3)
}

func TestCollectHmlFilesRejectsDirectoryWithoutRecursive(t *testing.T) {
	dir := t.TempDir()
	_, err := collectHmlFiles([]string{dir}, false)
	assert.Error(t, err)
}
