package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "hello", doc.Content)
	assert.NotNil(t, doc.Data)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestKeysSorted(t *testing.T) {
	doc := New("x", "")
	doc.Data["words"] = 1
	doc.Data["id"] = "a"
	doc.Data["lines"] = 2

	assert.Equal(t, []string{"id", "lines", "words"}, doc.Keys())
}
