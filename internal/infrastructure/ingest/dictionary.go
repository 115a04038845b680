package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	colNonStandard = "tidak_baku"
	colStandard    = "kata_baku"
)

// LoadDictionary reads the kamus baku (xlsx or csv) into a tidak_baku -> kata_baku map.
// A missing file yields an empty dictionary; later duplicates win.
func LoadDictionary(path string, log *slog.Logger) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	default:
		rows, err = readXLSXRows(path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		if log != nil {
			log.Warn("dictionary file not found, slang normalization disabled", "path", path)
		}
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}

	return dictionaryFromRows(rows)
}

func dictionaryFromRows(rows [][]string) (map[string]string, error) {
	dict := map[string]string{}
	if len(rows) == 0 {
		return dict, nil
	}

	from, to := -1, -1
	for i, col := range rows[0] {
		switch strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) {
		case colNonStandard:
			from = i
		case colStandard:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return nil, fmt.Errorf("dictionary header must contain %s and %s", colNonStandard, colStandard)
	}

	for _, row := range rows[1:] {
		key := strings.TrimSpace(cell(row, from))
		if key == "" {
			continue
		}
		dict[key] = strings.TrimSpace(cell(row, to))
	}
	return dict, nil
}

func readXLSXRows(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
