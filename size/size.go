/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package size provides a saturating, human-readable byte-size type used
// throughout the reactor core for buffer sizes, file-chunk thresholds, and
// connection byte counters.
package size

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Size is a byte count backed by uint64, with saturating arithmetic (it
// clamps at 0 and math.MaxUint64 instead of wrapping).
type Size uint64

const (
	SizeNul  Size = 0
	SizeUnit Size = 1
	SizeKilo Size = 1 << 10
	SizeMega Size = 1 << 20
	SizeGiga Size = 1 << 30
	SizeTera Size = 1 << 40
	SizePeta Size = 1 << 50
	SizeExa  Size = 1 << 60
)

// FormatRound controls the number of decimal digits String/Format renders.
type FormatRound uint8

const (
	FormatRound0 FormatRound = iota
	FormatRound1
	FormatRound2
	FormatRound3
)

// Add returns s+o, saturating at math.MaxUint64 on overflow.
func (s Size) Add(o Size) Size {
	if math.MaxUint64-uint64(s) < uint64(o) {
		return Size(math.MaxUint64)
	}

	return s + o
}

// Sub returns s-o, saturating at 0 on underflow.
func (s Size) Sub(o Size) Size {
	if o > s {
		return SizeNul
	}

	return s - o
}

// Mul returns s*f, saturating at math.MaxUint64 on overflow.
func (s Size) Mul(f uint64) Size {
	if f == 0 || s == 0 {
		return SizeNul
	}

	if uint64(s) > math.MaxUint64/f {
		return Size(math.MaxUint64)
	}

	return Size(uint64(s) * f)
}

// Div returns s/f, or s unchanged if f is zero.
func (s Size) Div(f uint64) Size {
	if f == 0 {
		return s
	}

	return Size(uint64(s) / f)
}

// Uint64 returns the size as a uint64.
func (s Size) Uint64() uint64 {
	return uint64(s)
}

// Int64 returns the size as an int64, saturating at math.MaxInt64.
func (s Size) Int64() int64 {
	if uint64(s) > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(s)
}

// Format renders the size with the given decimal precision and the
// largest unit for which the value is >= 1.
func (s Size) Format(round FormatRound) string {
	val := float64(s)
	unit := "B"

	switch {
	case s >= SizeExa:
		val, unit = val/float64(SizeExa), "EB"
	case s >= SizePeta:
		val, unit = val/float64(SizePeta), "PB"
	case s >= SizeTera:
		val, unit = val/float64(SizeTera), "TB"
	case s >= SizeGiga:
		val, unit = val/float64(SizeGiga), "GB"
	case s >= SizeMega:
		val, unit = val/float64(SizeMega), "MB"
	case s >= SizeKilo:
		val, unit = val/float64(SizeKilo), "KB"
	}

	return fmt.Sprintf("%.*f%s", int(round), val, unit)
}

// String implements fmt.Stringer, formatting with 2 decimal digits.
func (s Size) String() string {
	return s.Format(FormatRound2)
}

// ParseInt64 converts a signed size value, taking the absolute value of
// negative input.
func ParseInt64(i int64) Size {
	if i < 0 {
		i = -i
	}

	return Size(i)
}

// Parse parses a human size string such as "1K", "10MB", "2.5 GiB" into a
// Size. Recognized unit suffixes are B, K/KB, M/MB, G/GB, T/TB, P/PB, E/EB
// (binary multiples), matched case-insensitively; a bare number is taken
// as a byte count.
func Parse(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SizeNul, fmt.Errorf("size: empty value")
	}

	i := 0
	for i < len(s) && (s[i] == '.' || s[i] == '-' || s[i] == '+' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}

	numPart := s[:i]
	unitPart := strings.ToUpper(strings.TrimSpace(s[i:]))
	unitPart = strings.TrimSuffix(unitPart, "IB")
	unitPart = strings.TrimSuffix(unitPart, "B")

	if numPart == "" {
		return SizeNul, fmt.Errorf("size: invalid value %q", s)
	}

	f, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return SizeNul, fmt.Errorf("size: invalid numeric value %q: %w", numPart, err)
	}

	var mult Size

	switch unitPart {
	case "", "B":
		mult = SizeUnit
	case "K":
		mult = SizeKilo
	case "M":
		mult = SizeMega
	case "G":
		mult = SizeGiga
	case "T":
		mult = SizeTera
	case "P":
		mult = SizePeta
	case "E":
		mult = SizeExa
	default:
		return SizeNul, fmt.Errorf("size: unknown unit %q", unitPart)
	}

	if f < 0 {
		f = -f
	}

	return Size(f * float64(mult)), nil
}
