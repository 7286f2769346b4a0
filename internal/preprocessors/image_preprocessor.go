// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"fmt"
	"os"

	"shape-scan/internal/observability"
	metaextractexiflib "shape-scan/internal/preprocessors/meta-extractors/meta-extract-exiflib"
)

// ImagePreprocessor turns the EXIF string tags of an image into text
type ImagePreprocessor struct {
	observer *observability.StandardObserver
}

// NewImagePreprocessor creates a new image preprocessor
func NewImagePreprocessor() *ImagePreprocessor {
	return &ImagePreprocessor{}
}

// SetObserver sets the observability component
func (ip *ImagePreprocessor) SetObserver(observer *observability.StandardObserver) {
	ip.observer = observer
}

// GetName returns the name of this preprocessor
func (ip *ImagePreprocessor) GetName() string {
	return "Image Metadata Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (ip *ImagePreprocessor) GetSupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".tif", ".tiff"}
}

// CanProcess checks if this preprocessor can handle the given file
func (ip *ImagePreprocessor) CanProcess(filePath string) bool {
	return hasExtension(filePath, ip.GetSupportedExtensions())
}

// Process renders each EXIF string tag as a "Name: value" line. Images without EXIF
// produce empty text.
func (ip *ImagePreprocessor) Process(filePath string) (*ProcessedContent, error) {
	var finishTiming func(bool, map[string]interface{})
	if ip.observer != nil {
		finishTiming = ip.observer.StartTiming("image_preprocessor", "process_file", filePath)
	}

	if _, err := os.Stat(filePath); err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	data, err := metaextractexiflib.ExtractExif(filePath)
	if err != nil {
		result := newContent(filePath, "image", "Image", "")
		result.Metadata["exif_error"] = err.Error()
		if finishTiming != nil {
			finishTiming(true, map[string]interface{}{"tag_count": 0})
		}
		return result, nil
	}

	result := newContent(filePath, "image", "Image", data.Text())
	result.Metadata["tag_count"] = len(data.Tags)

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{"tag_count": len(data.Tags)})
	}
	return result, nil
}
