// Package combos loads the (category, year) combinations that drive a crawl
// run from a tabular CSV file.
package combos

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/casevault/courtcrawler/internal/crawler"
)

// Required header columns, matched case-sensitively.
const (
	colCategoryValue = "Category_Value"
	colCategoryName  = "Category_Name"
	colYear          = "Year"
)

// maxCombinations is the soft cap beyond which the loader warns about input
// size; the crawl still proceeds.
const maxCombinations = 10000

// LoadFile reads the combinations CSV at path. Missing required columns or an
// empty result set are fatal; duplicate rows are collapsed.
func LoadFile(path string, logger *zap.Logger) ([]crawler.Combination, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open combinations file %s: %w", path, err)
	}
	defer f.Close()

	combos, err := Load(f, logger)
	if err != nil {
		return nil, fmt.Errorf("load combinations from %s: %w", path, err)
	}
	return combos, nil
}

// Load parses combinations from r.
func Load(r io.Reader, logger *zap.Logger) ([]crawler.Combination, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colCategoryValue, colCategoryName, colYear} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	type key struct {
		id   string
		name string
		year int
	}
	seen := map[key]struct{}{}
	var combos []crawler.Combination

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) < len(header) {
			logger.Warn("skipping short combination row", zap.Int("fields", len(record)))
			continue
		}

		id := strings.TrimSpace(record[idx[colCategoryValue]])
		name := strings.TrimSpace(record[idx[colCategoryName]])
		yearText := strings.TrimSpace(record[idx[colYear]])
		year, convErr := strconv.Atoi(yearText)
		if id == "" || name == "" || convErr != nil {
			logger.Warn("skipping malformed combination row",
				zap.String("category_value", id),
				zap.String("category_name", name),
				zap.String("year", yearText),
			)
			continue
		}

		k := key{id: id, name: name, year: year}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		combos = append(combos, crawler.Combination{
			CategoryID:   id,
			CategoryName: name,
			Year:         year,
		})
	}

	if len(combos) == 0 {
		return nil, fmt.Errorf("no valid combinations found")
	}
	if len(combos) > maxCombinations {
		logger.Warn("excessive combinations; consider cleaning the input file",
			zap.Int("count", len(combos)),
		)
	}
	logger.Info("loaded combinations", zap.Int("count", len(combos)))

	return combos, nil
}
