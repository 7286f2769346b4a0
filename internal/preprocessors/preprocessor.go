// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"shape-scan/internal/observability"
)

// ErrUnsupportedFile is returned when no preprocessor can turn a file into text
var ErrUnsupportedFile = errors.New("file type not supported")

// StdinPath names standard input on the command line
const StdinPath = "-"

// MaxInputSize bounds the bytes read from any single input
const MaxInputSize = 100 * 1024 * 1024

// ProcessedContent represents content that has been processed by a preprocessor
type ProcessedContent struct {
	// Original file information
	OriginalPath string
	Filename     string

	// Extracted content
	Text string

	// Content metadata
	Format    string
	PageCount int
	WordCount int
	CharCount int
	LineCount int

	ProcessorType string

	Metadata map[string]interface{}
}

// newContent fills the counters shared by every preprocessor
func newContent(filePath, processorType, format, text string) *ProcessedContent {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	return &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          text,
		Format:        format,
		WordCount:     len(strings.Fields(text)),
		CharCount:     len(text),
		LineCount:     strings.Count(text, "\n") + 1,
		ProcessorType: processorType,
		Metadata:      make(map[string]interface{}),
	}
}

// Preprocessor interface defines methods for preprocessing files
type Preprocessor interface {
	// CanProcess checks if this preprocessor can handle the given file
	CanProcess(filePath string) bool

	// Process extracts content from the file
	Process(filePath string) (*ProcessedContent, error)

	// GetName returns the name of this preprocessor
	GetName() string

	// GetSupportedExtensions returns the file extensions this preprocessor supports
	GetSupportedExtensions() []string

	// SetObserver sets the observability component
	SetObserver(observer *observability.StandardObserver)
}

// PreprocessorManager manages all available preprocessors
type PreprocessorManager struct {
	preprocessors []Preprocessor
	observer      *observability.StandardObserver
}

// NewPreprocessorManager creates a new preprocessor manager
func NewPreprocessorManager() *PreprocessorManager {
	return &PreprocessorManager{
		preprocessors: make([]Preprocessor, 0),
	}
}

// NewDefaultManager registers the built-in preprocessors. Binary formats are tried
// before the plain text fallback.
func NewDefaultManager(observer *observability.StandardObserver) *PreprocessorManager {
	pm := NewPreprocessorManager()
	pm.observer = observer
	pm.RegisterPreprocessor(NewPDFPreprocessor())
	pm.RegisterPreprocessor(NewSpreadsheetPreprocessor())
	pm.RegisterPreprocessor(NewImagePreprocessor())
	pm.RegisterPreprocessor(NewPlainTextPreprocessor())
	return pm
}

// RegisterPreprocessor adds a preprocessor to the manager
func (pm *PreprocessorManager) RegisterPreprocessor(p Preprocessor) {
	if pm.observer != nil {
		p.SetObserver(pm.observer)
	}
	pm.preprocessors = append(pm.preprocessors, p)
}

// GetPreprocessor returns the appropriate preprocessor for a file, or nil if none found
func (pm *PreprocessorManager) GetPreprocessor(filePath string) Preprocessor {
	for _, p := range pm.preprocessors {
		if p.CanProcess(filePath) {
			return p
		}
	}
	return nil
}

// GetAvailablePreprocessors returns all registered preprocessors
func (pm *PreprocessorManager) GetAvailablePreprocessors() []Preprocessor {
	return pm.preprocessors
}

// ProcessFile extracts text from filePath with the first preprocessor that accepts it.
// Files nothing accepts yield an error wrapping ErrUnsupportedFile.
func (pm *PreprocessorManager) ProcessFile(filePath string) (*ProcessedContent, error) {
	p := pm.GetPreprocessor(filePath)
	if p == nil {
		return nil, fmt.Errorf("%s: %w", filePath, ErrUnsupportedFile)
	}

	content, err := p.Process(filePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %s failed: %w", filePath, p.GetName(), err)
	}
	return content, nil
}

// ProcessReader reads a text stream such as standard input
func ProcessReader(name string, r io.Reader) (*ProcessedContent, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%s too large (max: %d bytes)", name, MaxInputSize)
	}
	return newContent(name, "plaintext", "Plain Text", string(data)), nil
}

// hasExtension reports whether filePath ends in one of exts, ignoring case
func hasExtension(filePath string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
