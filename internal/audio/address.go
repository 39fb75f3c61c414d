package audio

import (
	"fmt"
	"strings"
)

// NormalizeAddress validates a 48-bit device address in colon-separated hex
// form and returns its canonical upper-case spelling, used as the registry
// key.
func NormalizeAddress(s string) (string, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return "", fmt.Errorf("invalid device address %q", s)
	}
	for _, p := range parts {
		if len(p) != 2 || !isHex(p[0]) || !isHex(p[1]) {
			return "", fmt.Errorf("invalid device address %q", s)
		}
	}
	return strings.ToUpper(s), nil
}

func isHex(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	default:
		return false
	}
}
