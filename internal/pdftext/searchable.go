package pdftext

import (
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"
)

// searchableThreshold is the number of characters of extractable text a PDF
// must contain before it is considered searchable rather than scanned.
const searchableThreshold = 50

// IsSearchable reports whether a PDF contains an extractable text layer, as
// opposed to a scanned raster image that would need OCR. Only the first three
// pages are inspected. Any failure to open or parse the document is treated
// as not searchable.
func IsSearchable(path string) bool {
	doc, err := fitz.New(path)
	if err != nil {
		return false
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages > 3 {
		pages = 3
	}

	var sb strings.Builder
	for i := 0; i < pages; i++ {
		text, err := doc.Text(i)
		if err != nil {
			continue
		}
		sb.WriteString(text)
	}

	return utf8.RuneCountInString(strings.TrimSpace(sb.String())) > searchableThreshold
}
