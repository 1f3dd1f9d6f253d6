package recognizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/korean-dog/receipt-recognizer/internal/pdftext"
)

// MapExtraction aligns pattern-extraction output to the base field schema.
// The built-in patterns cannot tell sender from recipient, so source and
// destination stay nil until context-based extraction is implemented.
func MapExtraction(ex *pdftext.Extraction) Fields {
	mapped := Fields{
		FieldSource:      nil,
		FieldDestination: nil,
		FieldAmount:      numericValue(ex.Matches["amount"]),
		FieldFee:         numericValue(ex.Matches["commission"]),
		FieldDate:        CombineDateTime(ex.Matches["date"], ex.Matches["time"]),
		"raw_extracted":  ex.Matches,
	}
	if ex.Bank != "" {
		mapped["bank"] = ex.Bank
	}
	return mapped
}

// CombineDateTime joins a date and a time into one timestamp string. A time
// without a date is useless on its own, so the result is nil unless a date is
// present.
func CombineDateTime(date, clock string) any {
	if date == "" {
		return nil
	}
	if clock != "" {
		return date + "T" + clock
	}
	return date
}

// numericValue parses a receipt amount, accepting both comma and dot decimal
// separators. Returns nil rather than an error when the value is absent or
// malformed.
func numericValue(s string) any {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil
	}
	return f
}

// fieldAliases lists, per base field, the upstream key names to try in
// priority order. External recognizers are loose about naming, so the first
// alias present in the raw result wins.
var fieldAliases = map[string][]string{
	FieldSource:      {"sender", "sender_card", "source"},
	FieldDestination: {"receiver", "receiver_card", "destination"},
	FieldAmount:      {"amount", "total", "sum"},
	FieldFee:         {"commission", "fee"},
	FieldDate:        {"date", "datetime", "time"},
}

// Standardize converts a loosely-named recognition result into the base field
// schema, validating that every base field was resolved. The original result
// is preserved under "_raw".
func Standardize(raw Fields) (Fields, error) {
	std := Fields{
		FieldSource:      firstField(raw, fieldAliases[FieldSource]...),
		FieldDestination: firstField(raw, fieldAliases[FieldDestination]...),
		FieldAmount:      numericField(raw, fieldAliases[FieldAmount]...),
		FieldFee:         numericField(raw, fieldAliases[FieldFee]...),
		FieldDate:        dateField(raw, fieldAliases[FieldDate]...),
		"_raw":           raw,
	}
	if err := Validate(std); err != nil {
		return nil, err
	}
	return std, nil
}

// firstField returns the value of the first candidate key present in the
// record, or nil when none is.
func firstField(data Fields, keys ...string) any {
	for _, key := range keys {
		if value, ok := data[key]; ok {
			return value
		}
	}
	return nil
}

// numericField resolves a candidate key and coerces its value to a float64.
// Coercion failures yield nil rather than an error.
func numericField(data Fields, keys ...string) any {
	value := firstField(data, keys...)
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return numericValue(v)
	default:
		return nil
	}
}

// dateField resolves a candidate key and renders it as a date string.
// time.Time values become RFC 3339, everything else is stringified as-is.
func dateField(data Fields, keys ...string) any {
	value := firstField(data, keys...)
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		return v.Format(time.RFC3339)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
