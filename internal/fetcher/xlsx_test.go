package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTestXLSX(t *testing.T, sheetName string, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeTestXLSX(t, "Sheet1", [][]string{
		{"name", "spend"},
		{"Ad A", "10.5"},
		{"Ad B", "2"},
	})

	rows, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Ad A", rows[0]["name"])
	assert.Equal(t, "10.5", rows[0]["spend"])
	assert.Equal(t, "2", rows[1]["spend"])
}

func TestReadXLSX_SheetByName(t *testing.T) {
	path := writeTestXLSX(t, "Export", [][]string{
		{"name"},
		{"Ad A"},
	})

	rows, err := ReadXLSX(path, XLSXOptions{SheetName: "Export"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = ReadXLSX(path, XLSXOptions{SheetName: "Missing"})
	assert.Error(t, err)
}

func TestReadXLSX_SheetIndexOutOfRange(t *testing.T) {
	path := writeTestXLSX(t, "Sheet1", [][]string{{"name"}})

	_, err := ReadXLSX(path, XLSXOptions{SheetIndex: 3})
	assert.Error(t, err)
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), XLSXOptions{})
	assert.Error(t, err)
}
