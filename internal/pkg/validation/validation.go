package validation

import (
	"regexp"
	"strings"
)

// Unit names: letters, digits, spaces, and the punctuation found in ship and unit
// designations (hyphen, apostrophe, period, parentheses, slash).
var unitNameRe = regexp.MustCompile(`^[A-Za-z0-9\s\-'./()]+$`)

const maxUnitNameLen = 100

func IsValidUnitName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= maxUnitNameLen && unitNameRe.MatchString(name)
}

// IsValidTonnage accepts zero (storage) up to the largest hull the catalog models.
func IsValidTonnage(t int) bool {
	return t >= 0 && t <= 2_500_000
}

// IsValidQuantity bounds a single stock delivery.
func IsValidQuantity(q int) bool {
	return q > 0 && q <= 10_000
}
