package sink_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/clearscan/augforge/pkg/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSSink_WriteBytesCreatesParentDirs(t *testing.T) {
	root := t.TempDir()
	s := sink.NewFSSink(root)

	require.NoError(t, s.WriteBytes("images/train/cat.jpg", []byte("pixels")))

	got, err := os.ReadFile(filepath.Join(root, "images/train/cat.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(got))
}

func TestFSSink_WriteText(t *testing.T) {
	root := t.TempDir()
	s := sink.NewFSSink(root)

	require.NoError(t, s.WriteText("labels/train/cat.txt", "0 0.5 0.5 0.2 0.2"))

	got, err := os.ReadFile(filepath.Join(root, "labels/train/cat.txt"))
	require.NoError(t, err)
	assert.Equal(t, "0 0.5 0.5 0.2 0.2", string(got))
}

func TestFSSink_EnsureDir(t *testing.T) {
	root := t.TempDir()
	s := sink.NewFSSink(root)

	require.NoError(t, s.EnsureDir("metadata"))
	info, err := os.Stat(filepath.Join(root, "metadata"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFSSink_RemoveFile(t *testing.T) {
	root := t.TempDir()
	s := sink.NewFSSink(root)
	require.NoError(t, s.WriteBytes("images/train/cat.jpg", []byte("pixels")))

	require.NoError(t, s.RemoveFile("images/train/cat.jpg"))
	_, err := os.Stat(filepath.Join(root, "images/train/cat.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestFSSink_RemoveFile_MissingIsNotError(t *testing.T) {
	root := t.TempDir()
	s := sink.NewFSSink(root)
	assert.NoError(t, s.RemoveFile("never/written.jpg"))
}
