package eval

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCorpus_TextSamples(t *testing.T) {
	samples, err := LoadCorpus("testdata/corpus")
	require.NoError(t, err)
	require.Len(t, samples, 2)

	// Sorted by name regardless of directory order.
	assert.Equal(t, "bachhoa", samples[0].Name)
	assert.Equal(t, "banhmi", samples[1].Name)

	banhmi := samples[1]
	require.Len(t, banhmi.Lines, 8)
	assert.Equal(t, "Bánh mì 20.000đ", banhmi.Lines[2])
	require.Len(t, banhmi.Expected, 3)
	assert.Equal(t, "Bánh mì", banhmi.Expected[0].Description)
	assert.Equal(t, "20000", banhmi.Expected[0].Amount.String())
	assert.False(t, banhmi.Expected[0].Readonly)

	bachhoa := samples[0]
	require.Len(t, bachhoa.Lines, 9)
	require.Len(t, bachhoa.Expected, 2)
	assert.Equal(t, "XV COMFORT DIEU KY TUI 3.1L", bachhoa.Expected[0].Description)
	assert.Equal(t, "169500", bachhoa.Expected[0].Amount.String())
}

// A generated sample written into a workbook must load back unchanged, tax
// annotations included.
func TestLoadCorpus_Workbook(t *testing.T) {
	dir := t.TempDir()
	want := NewGenerator(11).TableDialectReceipt(5)
	writeWorkbookSample(t, filepath.Join(dir, "coopmart.xlsx"), want)

	samples, err := LoadCorpus(dir)
	require.NoError(t, err)
	require.Len(t, samples, 1)

	got := samples[0]
	assert.Equal(t, "coopmart", got.Name)
	assert.Equal(t, want.Lines, got.Lines)
	require.Len(t, got.Expected, len(want.Expected))
	for i, w := range want.Expected {
		assert.Equal(t, w.Description, got.Expected[i].Description, "row %d", i)
		assert.True(t, w.Amount.Equal(got.Expected[i].Amount), "row %d", i)
		assert.Equal(t, w.Readonly, got.Expected[i].Readonly, "row %d", i)
	}
}

func TestLoadCorpus_MixedDirectory(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(12)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "quan.txt"),
		[]byte("Bánh mì 20.000đ\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quan.expected.csv"),
		[]byte("description,amount,readonly\nBánh mì,20000,false\n"), 0o644))
	writeWorkbookSample(t, filepath.Join(dir, "coop.xlsx"), g.TableDialectReceipt(3))

	samples, err := LoadCorpus(dir)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "coop", samples[0].Name)
	assert.Equal(t, "quan", samples[1].Name)
}

func TestLoadCorpus_Errors(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		_, err := LoadCorpus(t.TempDir())
		assert.ErrorIs(t, err, ErrEmptyCorpus)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := LoadCorpus(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorContains(t, err, "read corpus dir")
	})

	t.Run("lines without annotation", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "orphan.txt"),
			[]byte("Bánh mì 20.000đ\n"), 0o644))

		_, err := LoadCorpus(dir)
		assert.ErrorIs(t, err, ErrMissingExpected)
		assert.ErrorContains(t, err, "orphan")
	})

	t.Run("unparseable annotation amount", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"),
			[]byte("Bánh mì 20.000đ\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.expected.csv"),
			[]byte("description,amount,readonly\nBánh mì,twenty,false\n"), 0o644))

		_, err := LoadCorpus(dir)
		assert.ErrorContains(t, err, "bad.expected.csv")
	})

	t.Run("workbook without sheets", func(t *testing.T) {
		dir := t.TempDir()
		f := excelize.NewFile()
		require.NoError(t, f.SaveAs(filepath.Join(dir, "blank.xlsx")))
		require.NoError(t, f.Close())

		_, err := LoadCorpus(dir)
		assert.ErrorContains(t, err, linesSheet)
	})
}

func TestParseExpectedRows(t *testing.T) {
	t.Run("no header", func(t *testing.T) {
		_, err := parseExpectedRows(nil)
		assert.ErrorContains(t, err, "missing header row")
	})

	t.Run("header only", func(t *testing.T) {
		expected, err := parseExpectedRows([][]string{{"description", "amount", "readonly"}})
		require.NoError(t, err)
		assert.Empty(t, expected)
	})

	t.Run("blank descriptions are skipped", func(t *testing.T) {
		expected, err := parseExpectedRows([][]string{
			{"description", "amount"},
			{"", "123"},
			{"Bánh mì", "20000"},
			{},
		})
		require.NoError(t, err)
		require.Len(t, expected, 1)
		assert.Equal(t, "Bánh mì", expected[0].Description)
	})

	t.Run("readonly column optional", func(t *testing.T) {
		expected, err := parseExpectedRows([][]string{
			{"description", "amount", "readonly"},
			{"Bánh mì", "20000"},
			{"Thue GTGT 8%", "12227", "true"},
		})
		require.NoError(t, err)
		require.Len(t, expected, 2)
		assert.False(t, expected[0].Readonly)
		assert.True(t, expected[1].Readonly)
	})

	t.Run("missing amount", func(t *testing.T) {
		_, err := parseExpectedRows([][]string{
			{"description", "amount"},
			{"Bánh mì"},
		})
		assert.ErrorContains(t, err, "row 2: missing amount")
	})

	t.Run("bad readonly flag", func(t *testing.T) {
		_, err := parseExpectedRows([][]string{
			{"description", "amount", "readonly"},
			{"Bánh mì", "20000", "maybe"},
		})
		assert.ErrorContains(t, err, `readonly "maybe"`)
	})
}

// writeWorkbookSample stores a sample in the annotated-workbook layout the
// loader reads: receipt lines in column A of one sheet, the expectation grid
// on another.
func writeWorkbookSample(t *testing.T, path string, s Sample) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(linesSheet)
	require.NoError(t, err)
	_, err = f.NewSheet(expectedSheet)
	require.NoError(t, err)

	for i, line := range s.Lines {
		require.NoError(t, f.SetCellValue(linesSheet, fmt.Sprintf("A%d", i+1), line))
	}

	require.NoError(t, f.SetCellValue(expectedSheet, "A1", "description"))
	require.NoError(t, f.SetCellValue(expectedSheet, "B1", "amount"))
	require.NoError(t, f.SetCellValue(expectedSheet, "C1", "readonly"))
	for i, it := range s.Expected {
		row := i + 2
		require.NoError(t, f.SetCellValue(expectedSheet, fmt.Sprintf("A%d", row), it.Description))
		require.NoError(t, f.SetCellValue(expectedSheet, fmt.Sprintf("B%d", row), it.Amount.String()))
		if it.Readonly {
			require.NoError(t, f.SetCellValue(expectedSheet, fmt.Sprintf("C%d", row), "true"))
		}
	}

	require.NoError(t, f.SaveAs(path))
}
