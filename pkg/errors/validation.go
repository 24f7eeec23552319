package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateFinite rejects NaN and infinite coordinates or dimensions.
// name identifies the value in the returned message (e.g. "p1.x").
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) {
		return New(ErrCodeInvalidInput, "%s is not a number", name)
	}
	if math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s is infinite", name)
	}
	return nil
}

// ValidatePositive rejects values that are not finite and strictly greater than zero.
func ValidatePositive(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateOutputPath validates a file path used for rendered output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//
// Absolute and parent-relative paths are allowed; the CLI writes wherever
// the user asks.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateLayer validates a drawing layer name. Layer names are short,
// printable and free of the characters DXF reserves.
func ValidateLayer(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "layer name cannot be empty")
	}
	if len(name) > 255 {
		return New(ErrCodeInvalidInput, "layer name too long (max 255 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "layer name contains control characters")
		}
	}
	if strings.ContainsAny(name, `<>/\":;?*|=`+"`") {
		return New(ErrCodeInvalidInput, "layer name contains reserved characters: %q", name)
	}
	return nil
}
