package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportConfig defines how a word pool is read from a file
type ImportConfig struct {
	FilePath   string // Path to the Excel or CSV file
	WordColumn int    // 0-based column holding the word
	SheetName  string // Name of the sheet to import (Excel only)
	StartRow   int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig(filePath string) ImportConfig {
	return ImportConfig{
		FilePath:   filePath,
		WordColumn: 0,
		SheetName:  "Sheet1",
		StartRow:   2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the outcome of one import
type ImportResult struct {
	Words          []string // Deduplicated, trimmed word list in file order
	TotalProcessed int
	Skipped        int
	Errors         []string
}

// ImportWords reads a word pool from an Excel or CSV file. Blank cells and
// duplicates are skipped; the resulting list is ready for session creation.
func ImportWords(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(config)
	}
	return importFromExcel(config)
}

// importFromExcel reads words from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	seen := make(map[string]bool)

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		collectWord(row, config.WordColumn, seen, result, i+1)
	}

	return result, nil
}

// importFromCSV reads words from a CSV file
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	result := &ImportResult{Errors: make([]string, 0)}
	seen := make(map[string]bool)

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum+1, err))
			rowNum++
			continue
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++
		collectWord(row, config.WordColumn, seen, result, rowNum)
	}

	return result, nil
}

// collectWord extracts, validates and deduplicates one word from a row
func collectWord(row []string, column int, seen map[string]bool, result *ImportResult, rowNum int) {
	if column >= len(row) {
		result.Skipped++
		return
	}

	word := strings.TrimSpace(row[column])
	if word == "" {
		result.Skipped++
		return
	}
	if seen[word] {
		result.Skipped++
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: duplicate word %q", rowNum, word))
		return
	}

	seen[word] = true
	result.Words = append(result.Words, word)
}
