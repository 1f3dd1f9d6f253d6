package pdftext

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Word is a single text token with its bounding box on the page.
type Word struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"width"`
	H    float64 `json:"height"`
}

// Line is one line of text reconstructed from word positions.
type Line struct {
	Page  int     `json:"page"`
	Y     float64 `json:"y_position"`
	Text  string  `json:"text"`
	Words []Word  `json:"words"`
}

// ExtractionError indicates a document could not be opened or parsed.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting text from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ExtractLines extracts positioned text from a PDF, grouping word tokens into
// lines by their vertical position. Lines are returned in reading order (top
// to bottom), words within a line left to right. All-whitespace lines are
// dropped.
func ExtractLines(path string) (lines []Line, err error) {
	// The pdf package panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = &ExtractionError{Path: path, Err: fmt.Errorf("panic in pdf parser: %v", r)}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		lines = append(lines, groupIntoLines(page.Content().Text, pageNum-1)...)
	}

	return lines, nil
}

// groupIntoLines buckets word tokens by their y coordinate rounded to one
// decimal place, so tokens on the same visual line end up together even when
// their baselines differ by fractions of a point.
func groupIntoLines(words []pdf.Text, page int) []Line {
	byY := make(map[float64][]Word)
	for _, t := range words {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		key := math.Round(t.Y*10) / 10
		byY[key] = append(byY[key], Word{
			Text: t.S,
			X:    t.X,
			Y:    t.Y,
			W:    t.W,
			H:    t.FontSize,
		})
	}

	keys := make([]float64, 0, len(byY))
	for y := range byY {
		keys = append(keys, y)
	}
	// PDF coordinates grow upward, so reading order is descending y.
	sort.Sort(sort.Reverse(sort.Float64Slice(keys)))

	lines := make([]Line, 0, len(keys))
	for _, y := range keys {
		lineWords := byY[y]
		sort.Slice(lineWords, func(i, j int) bool { return lineWords[i].X < lineWords[j].X })

		parts := make([]string, len(lineWords))
		for i, w := range lineWords {
			parts[i] = w.Text
		}
		text := strings.Join(parts, " ")
		if strings.TrimSpace(text) == "" {
			continue
		}

		lines = append(lines, Line{
			Page:  page,
			Y:     y,
			Text:  text,
			Words: lineWords,
		})
	}
	return lines
}

// ExtractText extracts all text from a PDF in reading order, one line per
// reconstructed text line.
func ExtractText(path string) (string, error) {
	lines, err := ExtractLines(path)
	if err != nil {
		return "", err
	}
	return joinLines(lines), nil
}

func joinLines(lines []Line) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
