// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"fmt"
	"os"
	"path/filepath"

	"shape-scan/internal/observability"
)

// PlainTextPreprocessor passes text files through unchanged. Files with an unknown
// extension are accepted when their first bytes look like text.
type PlainTextPreprocessor struct {
	observer *observability.StandardObserver
}

// NewPlainTextPreprocessor creates a new plain text preprocessor
func NewPlainTextPreprocessor() *PlainTextPreprocessor {
	return &PlainTextPreprocessor{}
}

// SetObserver sets the observability component
func (ptp *PlainTextPreprocessor) SetObserver(observer *observability.StandardObserver) {
	ptp.observer = observer
}

// GetName returns the name of this preprocessor
func (ptp *PlainTextPreprocessor) GetName() string {
	return "Plain Text Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (ptp *PlainTextPreprocessor) GetSupportedExtensions() []string {
	return []string{
		".txt", ".text", ".log", ".md", ".markdown", ".rst",
		".yaml", ".yml", ".json", ".xml", ".toml", ".ini", ".conf", ".cfg",
		".html", ".htm", ".css", ".js", ".ts", ".go", ".py", ".sql", ".sh",
		".csv", ".tsv", ".jsonl", ".ndjson", ".eml", ".env",
	}
}

// CanProcess checks if this preprocessor can handle the given file
func (ptp *PlainTextPreprocessor) CanProcess(filePath string) bool {
	if hasExtension(filePath, ptp.GetSupportedExtensions()) {
		return true
	}
	return ptp.isTextFile(filePath)
}

// Process reads the file content
func (ptp *PlainTextPreprocessor) Process(filePath string) (*ProcessedContent, error) {
	var finishTiming func(bool, map[string]interface{})
	if ptp.observer != nil {
		finishTiming = ptp.observer.StartTiming("plaintext_preprocessor", "process_file", filePath)
	}

	content, err := readTextFile(filePath)
	if err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		return nil, err
	}

	result := newContent(filePath, "plaintext", "Plain Text", content)
	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"word_count": result.WordCount,
			"line_count": result.LineCount,
		})
	}
	return result, nil
}

func readTextFile(filePath string) (string, error) {
	cleanPath := filepath.Clean(filePath)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to get file info: %w", err)
	}
	if info.Size() > MaxInputSize {
		return "", fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), MaxInputSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// isTextFile sniffs the first 512 bytes: no NUL bytes and mostly printable.
// Empty files count as text.
func (ptp *PlainTextPreprocessor) isTextFile(filePath string) bool {
	file, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return false
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		return false
	}
	if stat.Size() == 0 {
		return true
	}

	buffer := make([]byte, 512)
	n, _ := file.Read(buffer)
	if n == 0 {
		return false
	}
	buffer = buffer[:n]

	printable := 0
	for _, b := range buffer {
		if b == 0 {
			return false
		}
		if (b >= 32 && b <= 126) || b == '\t' || b == '\n' || b == '\r' || b >= 0x80 {
			printable++
		}
	}
	return float64(printable)/float64(len(buffer)) > 0.95
}
