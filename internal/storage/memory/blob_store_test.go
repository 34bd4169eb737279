package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlobStoreSaveAndGet(t *testing.T) {
	t.Parallel()

	store := New()
	uri, err := store.Save(context.Background(), "judgements/x.pdf", []byte("pdf-bytes"))
	require.NoError(t, err)
	require.Equal(t, "mem://judgements/x.pdf", uri)

	data, ok := store.Get("judgements/x.pdf")
	require.True(t, ok)
	require.Equal(t, []byte("pdf-bytes"), data)
	require.Equal(t, 1, store.Len())
}

func TestBlobStoreRejectsEmptyName(t *testing.T) {
	t.Parallel()

	store := New()
	_, err := store.Save(context.Background(), "", []byte("data"))
	require.Error(t, err)
}
