package member

import (
	"strings"
	"unicode"
)

// ValidName reports whether name is exactly two alphabetic words.
func ValidName(name string) bool {
	parts := strings.Fields(name)
	if len(parts) != 2 {
		return false
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsLetter(r) {
				return false
			}
		}
	}
	return true
}

// ValidEmail reports whether email has exactly one '@' with text on both sides.
func ValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}
