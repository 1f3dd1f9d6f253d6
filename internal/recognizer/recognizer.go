// Package recognizer is a client for the receipt-recognizer API with a local
// extraction path for searchable PDF receipts. Recognition results are loose
// field maps normalized against a fixed base-field schema.
package recognizer

// Base field names every recognition result must populate or explicitly null.
const (
	FieldSource      = "source"      // sender account/card
	FieldDestination = "destination" // recipient account/card
	FieldAmount      = "amount"      // transaction amount in rubles
	FieldFee         = "fee"         // transaction fee in rubles
	FieldDate        = "date"        // transaction date and time
)

// BaseFields lists the required fields in their canonical order. The set is
// fixed; validation and error messages follow this order.
var BaseFields = []string{
	FieldSource,
	FieldDestination,
	FieldAmount,
	FieldFee,
	FieldDate,
}

// Fields is a recognition result keyed by field name. Values are strings,
// numbers, booleans, nested maps or nil, depending on which path produced
// the result.
type Fields map[string]any
