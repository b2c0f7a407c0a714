// Package eval measures extraction quality against a golden corpus of
// annotated receipts. A corpus directory pairs OCR line dumps with the items
// a correct extraction must produce; the runner replays each receipt through
// the engine and scores the output item by item, in order.
package eval

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Corpus file layout. A sample is either a pair of plain files
// ("<name>.txt" with one OCR line per line, "<name>.expected.csv" with
// description,amount,readonly columns) or a single annotated workbook
// ("<name>.xlsx" with a "lines" sheet and an "expected" sheet).
const (
	linesSheet    = "lines"
	expectedSheet = "expected"
)

var (
	ErrEmptyCorpus     = errors.New("corpus directory has no samples")
	ErrMissingExpected = errors.New("sample has no expectation file")
)

// ExpectedItem is one annotated line item. CSV headers and workbook columns
// map onto it by name.
type ExpectedItem struct {
	Description string          `csv:"description"`
	Amount      decimal.Decimal `csv:"amount"`
	Readonly    bool            `csv:"readonly"`
}

// Sample is one annotated receipt.
type Sample struct {
	Name     string
	Lines    []string
	Expected []ExpectedItem
}

// LoadCorpus reads every sample under dir, sorted by name so reports stay
// stable across runs.
func LoadCorpus(dir string) ([]Sample, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	var samples []Sample
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".txt"):
			s, err := loadTextSample(dir, strings.TrimSuffix(name, ".txt"))
			if err != nil {
				return nil, err
			}
			samples = append(samples, s)
		case strings.HasSuffix(name, ".xlsx"):
			s, err := loadWorkbookSample(filepath.Join(dir, name), strings.TrimSuffix(name, ".xlsx"))
			if err != nil {
				return nil, err
			}
			samples = append(samples, s)
		}
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCorpus, dir)
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}

func loadTextSample(dir, name string) (Sample, error) {
	lines, err := readLines(filepath.Join(dir, name+".txt"))
	if err != nil {
		return Sample{}, fmt.Errorf("sample %s: %w", name, err)
	}

	csvPath := filepath.Join(dir, name+".expected.csv")
	f, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Sample{}, fmt.Errorf("%w: %s", ErrMissingExpected, name)
		}
		return Sample{}, fmt.Errorf("sample %s: %w", name, err)
	}
	defer f.Close()

	var expected []ExpectedItem
	if err := gocsv.Unmarshal(f, &expected); err != nil {
		return Sample{}, fmt.Errorf("sample %s: parse %s: %w", name, filepath.Base(csvPath), err)
	}

	return Sample{Name: name, Lines: lines, Expected: expected}, nil
}

func loadWorkbookSample(path, name string) (Sample, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Sample{}, fmt.Errorf("sample %s: open workbook: %w", name, err)
	}
	defer f.Close()

	lineRows, err := f.GetRows(linesSheet)
	if err != nil {
		return Sample{}, fmt.Errorf("sample %s: sheet %q: %w", name, linesSheet, err)
	}
	lines := make([]string, 0, len(lineRows))
	for _, row := range lineRows {
		if len(row) == 0 {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, row[0])
	}
	lines = trimTrailingEmpty(lines)

	expRows, err := f.GetRows(expectedSheet)
	if err != nil {
		return Sample{}, fmt.Errorf("sample %s: sheet %q: %w", name, expectedSheet, err)
	}
	expected, err := parseExpectedRows(expRows)
	if err != nil {
		return Sample{}, fmt.Errorf("sample %s: sheet %q: %w", name, expectedSheet, err)
	}

	return Sample{Name: name, Lines: lines, Expected: expected}, nil
}

// parseExpectedRows reads the annotation grid: a header row, then one row
// per item with description, amount, and an optional readonly flag.
func parseExpectedRows(rows [][]string) ([]ExpectedItem, error) {
	if len(rows) == 0 {
		return nil, errors.New("missing header row")
	}

	var expected []ExpectedItem
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: missing amount", i+2)
		}

		value, err := decimal.NewFromString(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: amount %q: %w", i+2, row[1], err)
		}

		readonly := false
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			readonly, err = strconv.ParseBool(strings.TrimSpace(row[2]))
			if err != nil {
				return nil, fmt.Errorf("row %d: readonly %q: %w", i+2, row[2], err)
			}
		}

		expected = append(expected, ExpectedItem{
			Description: strings.TrimSpace(row[0]),
			Amount:      value,
			Readonly:    readonly,
		})
	}
	return expected, nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := strings.Split(string(data), "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return trimTrailingEmpty(lines), nil
}

func trimTrailingEmpty(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
