// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractxlsxtextlib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxColumns bounds the cells read from one row of very wide sheets
const MaxColumns = 1000

// TextContent represents the cell text of a workbook
type TextContent struct {
	Filename   string
	Text       string
	SheetCount int
	RowCount   int
}

// ExtractText reads every sheet row by row. Cells of one row are joined with a tab and
// rows become lines, so a value never spans two cells.
func ExtractText(filePath string) (*TextContent, error) {
	content := &TextContent{
		Filename: filepath.Base(filePath),
	}

	file, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return content, fmt.Errorf("error opening workbook: %w", err)
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return content, fmt.Errorf("error reading workbook: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	sheets := f.GetSheetList()
	content.SheetCount = len(sheets)

	for _, sheet := range sheets {
		rows, err := f.Rows(sheet)
		if err != nil {
			return content, fmt.Errorf("error reading sheet %q: %w", sheet, err)
		}
		for rows.Next() {
			cols, err := rows.Columns()
			if err != nil {
				rows.Close()
				return content, fmt.Errorf("error reading sheet %q: %w", sheet, err)
			}
			if len(cols) > MaxColumns {
				cols = cols[:MaxColumns]
			}
			line := strings.TrimRight(strings.Join(cols, "\t"), "\t")
			if line == "" {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
			content.RowCount++
		}
		if err := rows.Close(); err != nil {
			return content, fmt.Errorf("error closing sheet %q: %w", sheet, err)
		}
	}

	content.Text = b.String()
	return content, nil
}
