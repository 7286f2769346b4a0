// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"shape-scan/internal/observability"
	textextractxlsxtextlib "shape-scan/internal/preprocessors/text-extractors/text-extract-xlsxtextlib"
)

// SpreadsheetPreprocessor extracts cell text from Excel workbooks
type SpreadsheetPreprocessor struct {
	observer *observability.StandardObserver
}

// NewSpreadsheetPreprocessor creates a new spreadsheet preprocessor
func NewSpreadsheetPreprocessor() *SpreadsheetPreprocessor {
	return &SpreadsheetPreprocessor{}
}

// SetObserver sets the observability component
func (s *SpreadsheetPreprocessor) SetObserver(observer *observability.StandardObserver) {
	s.observer = observer
}

// GetName returns the name of this preprocessor
func (s *SpreadsheetPreprocessor) GetName() string {
	return "Spreadsheet Text Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (s *SpreadsheetPreprocessor) GetSupportedExtensions() []string {
	return []string{".xlsx", ".xlsm", ".xltx", ".xltm"}
}

// CanProcess checks if this preprocessor can handle the given file
func (s *SpreadsheetPreprocessor) CanProcess(filePath string) bool {
	return hasExtension(filePath, s.GetSupportedExtensions())
}

// Process extracts one line of tab-separated cells per non-empty row
func (s *SpreadsheetPreprocessor) Process(filePath string) (*ProcessedContent, error) {
	var finishTiming func(bool, map[string]interface{})
	if s.observer != nil {
		finishTiming = s.observer.StartTiming("spreadsheet_preprocessor", "process_file", filePath)
	}

	text, err := textextractxlsxtextlib.ExtractText(filePath)
	if err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		return nil, err
	}

	result := newContent(filePath, "spreadsheet", "Excel Workbook", text.Text)
	result.PageCount = text.SheetCount
	result.Metadata["sheet_count"] = text.SheetCount
	result.Metadata["row_count"] = text.RowCount

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"sheet_count": text.SheetCount,
			"row_count":   text.RowCount,
		})
	}
	return result, nil
}
