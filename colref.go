package xlsxstream

import (
	"fmt"
	"strings"
)

// ColumnIndex converts an alphabetic cell reference such as "AA1220" into a
// zero-based column index. Trailing digits (the row part) are stripped; the
// remaining letters are read as bijective base-26 with A=1..Z=26, most
// significant letter first. Returns ErrInvalidReference if no letters remain
// or a non-letter appears among them.
func ColumnIndex(ref string) (int, error) {
	letters := strings.TrimRight(ref, "0123456789")
	if letters == "" {
		return 0, fmt.Errorf("%w: %q has no column letters", ErrInvalidReference, ref)
	}
	var n int64
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidReference, ref)
		}
		n = n*26 + int64(c-'A'+1)
	}
	return int(n - 1), nil
}

// ColumnLetters converts a zero-based column index to its column letters
// ("A", "B", ... "AA", ...). Returns "" for negative input.
func ColumnLetters(idx int) string {
	n := idx + 1
	if n <= 0 {
		return ""
	}
	var result []byte
	for n > 0 {
		n--
		r := 'A' + (n % 26)
		result = append([]byte{byte(r)}, result...)
		n /= 26
	}
	return string(result)
}
