package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSavePageWritesKeyedPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := NewDir(dir)
	require.NoError(t, err)

	path, err := w.SavePage(context.Background(), "Civil Writ", 2023, 3, []byte("<html>broken</html>"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Civil_Writ", "2023", "page_3.html"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<html>broken</html>", string(body))
}

func TestSavePageSanitizesCategory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := NewDir(dir)
	require.NoError(t, err)

	path, err := w.SavePage(context.Background(), `Crl. M(A)/..`, 2020, 1, []byte("x"))
	require.NoError(t, err)
	require.Contains(t, path, dir)
	require.NotContains(t, path, "..")
}

func TestSanitizeCategory(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Civil_Writ", SanitizeCategory("Civil Writ"))
	require.Equal(t, "Crl_M_A", SanitizeCategory("Crl. M (A)!"))
	require.Equal(t, "", SanitizeCategory("///"))
}

func TestNewDirRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := NewDir("  ")
	require.Error(t, err)
}

func TestNewDirCreatesMissingDirectory(t *testing.T) {
	t.Parallel()

	base := filepath.Join(t.TempDir(), "nested", "debug")
	_, err := NewDir(base)
	require.NoError(t, err)

	info, err := os.Stat(base)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
