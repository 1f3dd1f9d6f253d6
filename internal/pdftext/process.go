// Package pdftext extracts text, positions and receipt fields from searchable
// PDF documents. It is best-effort: the heuristics here only work on PDFs
// with a real text layer, scanned images need OCR upstream.
package pdftext

// Extraction is everything the local extraction path learns about a receipt.
type Extraction struct {
	FullText   string            `json:"full_text"`
	Lines      []Line            `json:"positioned_text"`
	Searchable bool              `json:"is_searchable"`
	Matches    map[string]string `json:"extracted"`
	Bank       string            `json:"bank,omitempty"`
}

// Process extracts text from a receipt PDF and runs the built-in pattern
// catalogue and bank detection over it.
func Process(path string) (*Extraction, error) {
	lines, err := ExtractLines(path)
	if err != nil {
		return nil, err
	}
	fullText := joinLines(lines)

	matches, err := FindByPatterns(fullText, ReceiptPatterns)
	if err != nil {
		return nil, err
	}

	return &Extraction{
		FullText:   fullText,
		Lines:      lines,
		Searchable: IsSearchable(path),
		Matches:    matches,
		Bank:       DetectBank(fullText),
	}, nil
}
