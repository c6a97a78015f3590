// Package safe provides helpers for safe numeric conversions with overflow checks.
package safe

import (
	"fmt"
	"math"
)

// Uint32 converts an unsigned integer to uint32 with range validation.
func Uint32[T ~uint | ~uint32 | ~uint64](v T) (uint32, error) {
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(v), nil
}
