package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestImportWords_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	content := "word\nкорова\nмолоко\n \nкорова\n  хлеб  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result, err := ImportWords(DefaultImportConfig(path))
	require.NoError(t, err)

	assert.Equal(t, []string{"корова", "молоко", "хлеб"}, result.Words)
	assert.Equal(t, 5, result.TotalProcessed)
	assert.Equal(t, 2, result.Skipped, "blank row and duplicate are skipped")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "duplicate")
}

func TestImportWords_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "word"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "корова"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "молоко"))
	require.NoError(t, f.SetCellValue("Sheet1", "A4", "корова"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result, err := ImportWords(DefaultImportConfig(path))
	require.NoError(t, err)

	assert.Equal(t, []string{"корова", "молоко"}, result.Words)
	assert.Equal(t, 1, result.Skipped)
}

func TestImportWords_MissingFile(t *testing.T) {
	_, err := ImportWords(DefaultImportConfig(filepath.Join(t.TempDir(), "nope.xlsx")))
	assert.Error(t, err)
}
