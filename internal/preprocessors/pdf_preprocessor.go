// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"shape-scan/internal/observability"
	textextractpdftextlib "shape-scan/internal/preprocessors/text-extractors/text-extract-pdftextlib"
)

// PDFPreprocessor extracts page text from PDF documents
type PDFPreprocessor struct {
	observer *observability.StandardObserver
}

// NewPDFPreprocessor creates a new PDF preprocessor
func NewPDFPreprocessor() *PDFPreprocessor {
	return &PDFPreprocessor{}
}

// SetObserver sets the observability component
func (p *PDFPreprocessor) SetObserver(observer *observability.StandardObserver) {
	p.observer = observer
}

// GetName returns the name of this preprocessor
func (p *PDFPreprocessor) GetName() string {
	return "PDF Text Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (p *PDFPreprocessor) GetSupportedExtensions() []string {
	return []string{".pdf"}
}

// CanProcess checks if this preprocessor can handle the given file
func (p *PDFPreprocessor) CanProcess(filePath string) bool {
	return hasExtension(filePath, p.GetSupportedExtensions())
}

// Process validates the document and extracts its text. Validation problems are
// reported but don't stop extraction, since many readable PDFs bend the standard.
func (p *PDFPreprocessor) Process(filePath string) (*ProcessedContent, error) {
	var finishTiming func(bool, map[string]interface{})
	if p.observer != nil {
		finishTiming = p.observer.StartTiming("pdf_preprocessor", "process_file", filePath)
	}

	validationErr := textextractpdftextlib.Validate(filePath)
	if validationErr != nil && p.observer != nil {
		p.observer.LogOperation(observability.StandardObservabilityData{
			Component: "pdf_preprocessor",
			Operation: "validate",
			Target:    filePath,
			Error:     validationErr.Error(),
		})
	}

	text, err := textextractpdftextlib.ExtractText(filePath)
	if err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		return nil, err
	}

	result := newContent(filePath, "pdf", "PDF", text.Text)
	result.PageCount = text.PageCount
	result.Metadata["pages_read"] = text.PagesRead
	result.Metadata["failed_pages"] = text.FailedPages
	result.Metadata["valid"] = validationErr == nil

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"page_count": text.PageCount,
			"pages_read": text.PagesRead,
		})
	}
	return result, nil
}
