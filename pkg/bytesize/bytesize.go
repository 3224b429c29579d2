// Package bytesize parses human-readable byte size strings.
package bytesize

import (
	"strconv"
	"strings"
)

// Multipliers for the supported size suffixes.
const (
	KiB = 1 << 10
	MiB = 1 << 20
	GiB = 1 << 30
)

// Parse converts a size string into a byte count. The grammar accepts a
// floating-point magnitude with an optional case-insensitive K, M or G
// suffix (multiplying by 1024, 1024^2 or 1024^3), or a plain integer with
// no suffix. Anything else reports ok=false.
func Parse(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	mult := int64(1)
	magnitude := s

	switch strings.ToUpper(s[len(s)-1:]) {
	case "K":
		mult = KiB
		magnitude = s[:len(s)-1]
	case "M":
		mult = MiB
		magnitude = s[:len(s)-1]
	case "G":
		mult = GiB
		magnitude = s[:len(s)-1]
	}

	if mult == 1 {
		n, err := strconv.ParseInt(magnitude, 10, 64)
		if err != nil || n <= 0 {
			return 0, false
		}

		return n, true
	}

	f, err := strconv.ParseFloat(magnitude, 64)
	if err != nil || f <= 0 {
		return 0, false
	}

	return int64(f * float64(mult)), true
}
