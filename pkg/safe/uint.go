// Package safe provides checked integer conversions for storage columns.
package safe

import (
	"fmt"
	"math"
)

// Integer is any built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Uint16 converts v to uint16, rejecting negatives and values above math.MaxUint16.
func Uint16[T Integer](v T) (uint16, error) {
	u, err := Uint64(v)
	if err != nil || u > math.MaxUint16 {
		return 0, fmt.Errorf("value %d out of uint16 range", v)
	}
	return uint16(u), nil
}

// Uint32 converts v to uint32, rejecting negatives and values above math.MaxUint32.
func Uint32[T Integer](v T) (uint32, error) {
	u, err := Uint64(v)
	if err != nil || u > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(u), nil
}

// Uint64 converts v to uint64, rejecting negatives.
func Uint64[T Integer](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return uint64(v), nil
}
