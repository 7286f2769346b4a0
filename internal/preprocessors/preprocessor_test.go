// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

// buildPDF writes a single-page document showing text in Helvetica
func buildPDF(text string) []byte {
	stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestManager_Routing(t *testing.T) {
	pm := NewDefaultManager(nil)

	cases := map[string]string{
		"report.pdf":  "PDF Text Preprocessor",
		"sheet.XLSX":  "Spreadsheet Text Preprocessor",
		"photo.jpeg":  "Image Metadata Preprocessor",
		"notes.txt":   "Plain Text Preprocessor",
		"server.log":  "Plain Text Preprocessor",
		"index.html":  "Plain Text Preprocessor",
		"missing.bin": "",
	}
	for name, want := range cases {
		p := pm.GetPreprocessor(filepath.Join(t.TempDir(), name))
		if want == "" {
			assert.Nil(t, p, name)
			continue
		}
		require.NotNil(t, p, name)
		assert.Equal(t, want, p.GetName(), name)
	}
}

func TestProcessFile_PlainText(t *testing.T) {
	path := writeFile(t, "mail.eml", []byte("From: ops@example.com\nSubject: #launch\n"))

	content, err := NewDefaultManager(nil).ProcessFile(path)
	require.NoError(t, err)
	assert.Equal(t, "From: ops@example.com\nSubject: #launch\n", content.Text)
	assert.Equal(t, "plaintext", content.ProcessorType)
	assert.Equal(t, "mail.eml", content.Filename)
	assert.Equal(t, 4, content.WordCount)
}

func TestProcessFile_TextWithoutKnownExtension(t *testing.T) {
	path := writeFile(t, "README", []byte("see https://example.com"))

	content, err := NewDefaultManager(nil).ProcessFile(path)
	require.NoError(t, err)
	assert.Equal(t, "see https://example.com", content.Text)
}

func TestProcessFile_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.dat", nil)

	content, err := NewDefaultManager(nil).ProcessFile(path)
	require.NoError(t, err)
	assert.Empty(t, content.Text)
}

func TestProcessFile_Unsupported(t *testing.T) {
	path := writeFile(t, "blob.bin", []byte{0x7f, 'E', 'L', 'F', 0, 0, 1, 2})

	_, err := NewDefaultManager(nil).ProcessFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFile))
}

func TestProcessFile_InvalidUTF8Cleaned(t *testing.T) {
	path := writeFile(t, "latin1.txt", []byte("caf\xe9 #menu"))

	content, err := NewDefaultManager(nil).ProcessFile(path)
	require.NoError(t, err)
	assert.Equal(t, "caf #menu", content.Text)
}

func TestProcessFile_Spreadsheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "email"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "ops@example.com"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "card"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "4111 1111 1111 1111"))
	path := filepath.Join(t.TempDir(), "people.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	content, err := NewDefaultManager(nil).ProcessFile(path)
	require.NoError(t, err)
	assert.Equal(t, "email\tops@example.com\ncard\t4111 1111 1111 1111\n", content.Text)
	assert.Equal(t, 1, content.Metadata["sheet_count"])
	assert.Equal(t, 2, content.Metadata["row_count"])
}

func TestProcessFile_CorruptSpreadsheet(t *testing.T) {
	path := writeFile(t, "broken.xlsx", []byte("not a zip archive"))

	_, err := NewDefaultManager(nil).ProcessFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Spreadsheet Text Preprocessor")
	assert.False(t, errors.Is(err, ErrUnsupportedFile))
}

func TestProcessFile_PDF(t *testing.T) {
	path := writeFile(t, "letter.pdf", buildPDF("contact ops@example.com"))

	content, err := NewDefaultManager(nil).ProcessFile(path)
	require.NoError(t, err)
	assert.Contains(t, content.Text, "ops@example.com")
	assert.Equal(t, 1, content.PageCount)
	assert.Equal(t, "pdf", content.ProcessorType)
}

func TestProcessFile_CorruptPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("%PDF-1.4\ngarbage"))

	_, err := NewDefaultManager(nil).ProcessFile(path)
	assert.Error(t, err)
}

func TestProcessFile_ImageWithoutExif(t *testing.T) {
	path := writeFile(t, "photo.jpg", []byte("not really a jpeg"))

	content, err := NewDefaultManager(nil).ProcessFile(path)
	require.NoError(t, err)
	assert.Empty(t, content.Text)
	assert.Contains(t, content.Metadata, "exif_error")
}

func TestProcessFile_MissingImage(t *testing.T) {
	_, err := NewDefaultManager(nil).ProcessFile(filepath.Join(t.TempDir(), "gone.jpg"))
	assert.Error(t, err)
}

func TestProcessReader(t *testing.T) {
	content, err := ProcessReader(StdinPath, strings.NewReader("#one #two"))
	require.NoError(t, err)
	assert.Equal(t, "#one #two", content.Text)
	assert.Equal(t, StdinPath, content.OriginalPath)
}
