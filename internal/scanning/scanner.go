package scanning

import "context"

// Scanner is the optional external recognition capability for receipts the
// local PDF path cannot handle (photos, scanned documents). Implementations
// return loosely-named field maps; the client standardizes them against the
// base field schema.
type Scanner interface {
	// Recognize analyzes a receipt image or PDF and extracts its fields.
	Recognize(ctx context.Context, data []byte, contentType string) (map[string]any, error)
	// Close releases the scanner's resources.
	Close() error
}
