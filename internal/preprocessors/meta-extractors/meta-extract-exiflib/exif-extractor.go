// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metaextractexiflib

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ExifData represents the text-valued EXIF tags of an image
type ExifData struct {
	FilePath string
	Tags     map[string]string
}

// exifWalker collects ASCII tags; numeric and binary tags can't hold the shapes we look for
type exifWalker struct {
	tags map[string]string
}

// Walk implements the exif.Walker interface
func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag == nil || tag.Format() != tiff.StringVal {
		return nil
	}
	value, err := tag.StringVal()
	if err != nil {
		return nil
	}
	value = strings.TrimSpace(strings.TrimRight(value, "\x00"))
	if value != "" {
		w.tags[string(name)] = value
	}
	return nil
}

// ExtractExif extracts EXIF string tags from an image file
func ExtractExif(filePath string) (*ExifData, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("no EXIF data found: %w", err)
	}

	result := &ExifData{
		FilePath: filePath,
		Tags:     make(map[string]string),
	}
	if err := x.Walk(&exifWalker{tags: result.Tags}); err != nil {
		return nil, fmt.Errorf("error reading EXIF tags: %w", err)
	}

	return result, nil
}

// GetSortedKeys returns the tag keys in alphabetical order
func (e *ExifData) GetSortedKeys() []string {
	keys := make([]string, 0, len(e.Tags))
	for name := range e.Tags {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// Text renders the tags as "Name: value" lines in key order
func (e *ExifData) Text() string {
	var b strings.Builder
	for _, key := range e.GetSortedKeys() {
		fmt.Fprintf(&b, "%s: %s\n", key, e.Tags[key])
	}
	return b.String()
}
