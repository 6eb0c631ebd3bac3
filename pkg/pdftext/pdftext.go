// Package pdftext extracts plain text lines from PDF documents.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is the text content of a parsed PDF
type Document struct {
	PageCount int
	Lines     []string
}

// ExtractLines parses data as a PDF and returns its non-empty trimmed lines in page order
func ExtractLines(data []byte) (doc *Document, err error) {
	// the parser panics on some malformed inputs
	defer func() {
		if p := recover(); p != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", p)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	doc = &Document{PageCount: r.NumPage()}
	for i := 1; i <= doc.PageCount; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", i, err)
		}
		doc.Lines = append(doc.Lines, SplitLines(text)...)
	}
	return doc, nil
}

// SplitLines splits text on line breaks, dropping blank lines
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
