package recognizer

// Validate checks that a recognition result carries all base fields with
// non-nil values. All fields are checked before failing, so the returned
// *ValidationError names the complete set of missing fields.
func Validate(result Fields) error {
	var missing []string
	for _, field := range BaseFields {
		value, ok := result[field]
		if !ok || value == nil {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
