// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractpdftextlib

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MaxPages bounds the pages read from one document
const MaxPages = 500

// PageSeparator is placed between the text of consecutive pages
const PageSeparator = "\n\n"

// TextContent represents the extracted text content from a PDF document
type TextContent struct {
	Filename    string
	Text        string
	PageCount   int
	PagesRead   int
	FailedPages int
}

var disableConfigDir sync.Once

// Validate checks the document structure with pdfcpu in relaxed mode
func Validate(filePath string) error {
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(filePath, conf); err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	return nil
}

// ExtractText extracts the plain text of every page using ledongthuc/pdf
func ExtractText(filePath string) (*TextContent, error) {
	content := &TextContent{
		Filename: filepath.Base(filePath),
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return content, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	content.PageCount = r.NumPage()
	pages := content.PageCount
	if pages > MaxPages {
		pages = MaxPages
	}

	texts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			content.FailedPages++
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			content.FailedPages++
			continue
		}
		texts = append(texts, strings.TrimSpace(text))
		content.PagesRead++
	}

	if pages > 0 && content.PagesRead == 0 {
		return content, fmt.Errorf("no readable pages in %d", pages)
	}

	content.Text = strings.Join(texts, PageSeparator)
	return content, nil
}
