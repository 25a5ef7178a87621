package blob

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutAndRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "http://localhost:3001/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Put(ctx, "proof.jpg", []byte("proof-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:3001/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	data, err := os.ReadFile(filepath.Join(dir, path.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, []byte("proof-bytes"), data)

	require.NoError(t, s.Remove(ctx, url))
	_, err = os.Stat(filepath.Join(dir, path.Base(url)))
	assert.True(t, os.IsNotExist(err))

	// Removing twice is fine.
	assert.NoError(t, s.Remove(ctx, url))
}

func TestLocalStore_ClientNamesNeverCollide(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "http://localhost:3001")
	require.NoError(t, err)
	ctx := context.Background()

	a, err := s.Put(ctx, "same.jpg", []byte("a"))
	require.NoError(t, err)
	b, err := s.Put(ctx, "same.jpg", []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	// Oversized extensions are dropped rather than trusted.
	c, err := s.Put(ctx, "x."+strings.Repeat("y", 40), []byte("c"))
	require.NoError(t, err)
	assert.NotContains(t, c, strings.Repeat("y", 40))
}

func TestLocalStore_RemoveRejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "http://localhost:3001")
	require.NoError(t, err)

	assert.Error(t, s.Remove(context.Background(), "http://localhost:3001/uploads/../../etc/passwd/.."))
}
