package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeCharacteristic(characteristic string) string {
	return TrimAndNormalize(characteristic)
}

// NormalizeVariation is applied on the write path only. Stored variations are
// compared verbatim (modulo case) when known variations are computed.
func NormalizeVariation(variation string) string {
	return TrimAndNormalize(variation)
}

func NormalizeForComparison(s string) string {
	return strings.ToLower(TrimAndNormalize(s))
}
