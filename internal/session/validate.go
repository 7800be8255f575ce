package session

import (
	"strings"
	"unicode"
)

// validateMisspelling rejects words the record format cannot represent:
// the misspelling is the line's first whitespace-delimited token.
func validateMisspelling(misspelling string) error {
	if misspelling == "" {
		return invalidMisspelling(misspelling, "misspelling must not be empty")
	}
	if strings.IndexFunc(misspelling, unicode.IsSpace) >= 0 {
		return invalidMisspelling(misspelling, "misspelling must be a single word")
	}
	return nil
}

// validateCorrection rejects corrections that would not survive a round trip
// through the record: the text runs to the end of a single line and leading
// whitespace is consumed as a separator.
func validateCorrection(misspelling, corrected string) error {
	if corrected == "" {
		return invalidCorrection(misspelling, "correction must not be empty")
	}
	if strings.ContainsAny(corrected, "\r\n") {
		return invalidCorrection(misspelling, "correction must fit on one line")
	}
	if strings.TrimSpace(corrected) != corrected {
		return invalidCorrection(misspelling, "correction must not start or end with whitespace")
	}
	if corrected == misspelling {
		return invalidCorrection(misspelling, "correction is identical to the misspelling")
	}
	return nil
}
