package blob

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePutGeneratesKeyAndWritesFile(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	key, n, err := store.Put("", bytes.NewReader([]byte("hello")))
	require.NoError(t, err)
	assert.NotEmpty(t, key)
	assert.Equal(t, int64(5), n)

	p, err := store.Path(key)
	require.NoError(t, err)
	content, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestLocalStorePutHonorsExplicitKey(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	key, _, err := store.Put("2026/08/avatar.png", bytes.NewReader([]byte{1, 2, 3}))
	require.NoError(t, err)
	assert.Equal(t, "2026/08/avatar.png", key)
}

func TestLocalStoreDelete(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	key, _, err := store.Put("", bytes.NewReader([]byte("gone")))
	require.NoError(t, err)
	require.NoError(t, store.Delete(key))

	p, _ := store.Path(key)
	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))
}
