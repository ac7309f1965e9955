package storage_test

import (
	"strings"
	"testing"

	"veridia-hiring-backend/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndReadResume(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.SaveResume("ada@example.com", "My CV.pdf", []byte("%PDF-1.4 payload"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "ada_example_com_"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))

	data, err := store.ReadResume(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 payload"), data)
}

func TestUniqueNames(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.SaveResume("ada@example.com", "cv.pdf", []byte("one"))
	require.NoError(t, err)
	second, err := store.SaveResume("ada@example.com", "cv.pdf", []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	data, err := store.ReadResume(first)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)
}

func TestResumesAndPhotosAreSeparate(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.SavePhoto("ada@example.com", "me.png", []byte("png bytes"))
	require.NoError(t, err)

	_, err = store.ReadResume(name)
	assert.ErrorIs(t, err, storage.ErrFileNotFound)

	data, err := store.ReadPhoto(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), data)
}

func TestReadRejectsTraversal(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{
		"",
		"../secret",
		"..\\secret",
		"a/b.pdf",
		"/etc/passwd",
	} {
		_, err := store.ReadResume(name)
		assert.ErrorIs(t, err, storage.ErrFileNotFound, "name: %q", name)
	}
}

func TestReadMissingFile(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.ReadResume("nope.pdf")
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}
