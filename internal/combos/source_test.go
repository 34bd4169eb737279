package combos

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/casevault/courtcrawler/internal/crawler"
)

func TestLoadParsesRows(t *testing.T) {
	t.Parallel()

	input := strings.NewReader(
		"Category_Value,Category_Name,Year\n" +
			"31,Civil,2023\n" +
			"32,Criminal,2022\n",
	)
	combos, err := Load(input, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, []crawler.Combination{
		{CategoryID: "31", CategoryName: "Civil", Year: 2023},
		{CategoryID: "32", CategoryName: "Criminal", Year: 2022},
	}, combos)
}

func TestLoadCollapsesDuplicates(t *testing.T) {
	t.Parallel()

	input := strings.NewReader(
		"Category_Value,Category_Name,Year\n" +
			"31,Civil,2023\n" +
			"31,Civil,2023\n" +
			"31,Civil,2022\n",
	)
	combos, err := Load(input, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, combos, 2)
}

func TestLoadMissingColumnIsFatal(t *testing.T) {
	t.Parallel()

	input := strings.NewReader(
		"Category_Value,Year\n" +
			"31,2023\n",
	)
	_, err := Load(input, zap.NewNop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Category_Name")
}

func TestLoadEmptyIsFatal(t *testing.T) {
	t.Parallel()

	input := strings.NewReader("Category_Value,Category_Name,Year\n")
	_, err := Load(input, zap.NewNop())
	require.Error(t, err)
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	t.Parallel()

	input := strings.NewReader(
		"Category_Value,Category_Name,Year\n" +
			"31,Civil,not-a-year\n" +
			"32,Criminal,2022\n",
	)
	combos, err := Load(input, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, combos, 1)
	require.Equal(t, "32", combos[0].CategoryID)
}

func TestLoadFileMissingPathIsFatal(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.csv"), zap.NewNop())
	require.Error(t, err)
}

func TestLoadFileReadsDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "combos.csv")
	body := "Category_Value,Category_Name,Year\n31,Civil,2023\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	combos, err := LoadFile(path, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, combos, 1)
}
