package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// panelIDRegex matches ids that are safe as DOM element ids and as keys in
// the generated bootstrap script. HTML5 allows almost anything, but ids
// leave this program as querySelector arguments and JSON keys, so the rules
// are intentionally conservative.
var panelIDRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidatePanelID validates a caller-supplied panel id.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - Must start with a letter
//   - Only letters, digits, hyphens, and underscores
//   - Maximum length of 128 characters
func ValidatePanelID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPanel, "panel id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidPanel, "panel id too long (max 128 characters)")
	}
	if !panelIDRegex.MatchString(id) {
		return New(ErrCodeInvalidPanel, "invalid panel id: %q (must start with a letter and use only letters, digits, - and _)", id)
	}
	return nil
}

// ValidateTileURL validates a tile layer URL template for safety.
// It ensures the URL has a safe scheme and no control characters; tile
// placeholders like {z}/{x}/{y} are allowed.
func ValidateTileURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "tile URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "tile URL must use http or https scheme")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "tile URL contains invalid control characters")
		}
	}

	return nil
}

// ValidateCoords validates a [lat, lng] pair.
func ValidateCoords(coords []float64) error {
	if len(coords) != 2 {
		return New(ErrCodeInvalidInput, "coordinates must be [lat, lng], got %d values", len(coords))
	}
	lat, lng := coords[0], coords[1]
	if lat < -90 || lat > 90 {
		return New(ErrCodeInvalidInput, "latitude out of range: %v", lat)
	}
	if lng < -180 || lng > 180 {
		return New(ErrCodeInvalidInput, "longitude out of range: %v", lng)
	}
	return nil
}
