package clock

import (
	"fmt"
	"regexp"
	"strconv"
)

// Booking and amenity time windows are expressed as "HH:mm" wall-clock
// strings at the API boundary and as minutes since midnight internally.

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseHHMM parses an "HH:mm" string into minutes since midnight.
func ParseHHMM(s string) (int, error) {
	m := hhmmPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:mm", s)
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	return h*60 + mi, nil
}

// FormatHHMM renders minutes since midnight as an "HH:mm" string.
func FormatHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
