// Package formatting converts byte sizes between counts and human-readable strings.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var units = []string{
	"B", "KB", "MB",
	"GB", "TB", "PB",
	"EB",
}

var bytesPattern = regexp.MustCompile(`^(\d+\.?\d*)\s*([A-Za-z]*)$`)

// FormatBytes converts a byte count to a human-readable string using base-1024 units.
// Negative precision values are clamped to zero.
func FormatBytes(n int64, precision int) string {
	if n <= 0 {
		return "0 B"
	}

	precision = max(precision, 0)

	f := float64(n)
	i := min(int(math.Floor(math.Log(f)/math.Log(1024))), len(units)-1)

	size := f / math.Pow(1024, float64(i))
	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses a size such as "50MB" or "1.5 gb" into a byte count.
// A bare number is a count of bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	matches := bytesPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	unit := strings.ToUpper(matches[2])
	if unit == "" {
		return int64(value), nil
	}

	idx := slices.Index(units, unit)
	if idx == -1 {
		return 0, fmt.Errorf("unknown byte size unit: %q", unit)
	}

	n := value * math.Pow(1024, float64(idx))
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("byte size overflows: %q", s)
	}
	return int64(n), nil
}

// Size is a byte count that reads and writes as text, so configuration
// files can carry values like max_upload_size = "50MB".
type Size int64

// UnmarshalText parses text with ParseBytes.
func (s *Size) UnmarshalText(text []byte) error {
	n, err := ParseBytes(string(text))
	if err != nil {
		return err
	}
	*s = Size(n)
	return nil
}

// MarshalText renders the size with FormatBytes at whole-unit precision
// when that is exact, and as a bare byte count otherwise.
func (s Size) MarshalText() ([]byte, error) {
	text := s.String()
	if n, err := ParseBytes(text); err != nil || n != int64(s) {
		text = strconv.FormatInt(int64(s), 10)
	}
	return []byte(text), nil
}

func (s Size) String() string {
	return FormatBytes(int64(s), 0)
}
