package pdftext

import (
	"fmt"
	"regexp"
	"strings"
)

// ReceiptPatterns is the built-in pattern catalogue for Russian bank transfer
// receipts. Callers may pass their own set to FindByPatterns; this one covers
// the fields the supported banks print on every receipt.
var ReceiptPatterns = map[string]string{
	"amount":       `(\d+[.,]\d{2})\s*(?:руб|RUB|₽|р\.)`,
	"card_number":  `(\*\*\*\*\s*\d{4})`,
	"date":         `(\d{1,2}[-./]\d{1,2}[-./]\d{2,4})`,
	"time":         `(\d{1,2}:\d{2}(?::\d{2})?)`,
	"operation_id": `(?:№|#|номер)[\s:]*(\d+)`,
	"commission":   `комисс(?:ия)?[\s:]*(\d+[.,]\d{2})`,
}

// FindByPatterns runs each named pattern over the text and returns the first
// match per field. Matching is case-insensitive and multiline. A pattern with
// a capturing group yields the group's content, otherwise the full match. A
// field with no match maps to the empty string. Patterns are evaluated
// independently of each other.
func FindByPatterns(text string, patterns map[string]string) (map[string]string, error) {
	found := make(map[string]string, len(patterns))
	for name, pattern := range patterns {
		re, err := regexp.Compile(`(?im)` + pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", name, err)
		}
		m := re.FindStringSubmatch(text)
		switch {
		case m == nil:
			found[name] = ""
		case len(m) > 1:
			found[name] = m[1]
		default:
			found[name] = m[0]
		}
	}
	return found, nil
}

// bankMarkers maps each supported bank to the substrings that identify it.
// Order matters: a receipt mentioning several banks resolves to the first
// entry checked.
var bankMarkers = []struct {
	name    string
	markers []string
}{
	{"Сбербанк", []string{"сбер", "sber"}},
	{"Тинькофф", []string{"тинькофф", "tinkoff"}},
	{"Альфа-банк", []string{"альфа", "alfa"}},
	{"ВТБ", []string{"втб"}},
}

// DetectBank guesses the issuing bank from the receipt text. Returns the
// empty string when no known bank is mentioned.
func DetectBank(text string) string {
	lower := strings.ToLower(text)
	for _, bank := range bankMarkers {
		for _, marker := range bank.markers {
			if strings.Contains(lower, marker) {
				return bank.name
			}
		}
	}
	return ""
}
