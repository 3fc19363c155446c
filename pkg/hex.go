package pkg

import "fmt"

// ErrHexTooShort and ErrHexBadDigit distinguish the two ways a fixed-width
// hex field can fail to parse. A short field is never zero-padded and a bad
// digit is never skipped.
var (
	ErrHexTooShort = fmt.Errorf("hex field: not enough input")
	ErrHexBadDigit = fmt.Errorf("hex field: invalid hex digit")
)

// fixedLengthHex consumes exactly n bytes of src as lowercase hex and
// returns the decoded value together with the unconsumed remainder.
func fixedLengthHex(src []byte, n int) (uint64, []byte, error) {
	if len(src) < n {
		return 0, src, fmt.Errorf("%w: want %d bytes, have %d", ErrHexTooShort, n, len(src))
	}
	var v uint64
	for _, c := range src[:n] {
		d, ok := hexDigit(c)
		if !ok {
			return 0, src, fmt.Errorf("%w: %q", ErrHexBadDigit, c)
		}
		v = v<<4 | uint64(d)
	}
	return v, src[n:], nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// unhexLUT maps every byte to its nibble value. Bytes outside 0-9a-f map
// to 0.
var unhexLUT = func() (lut [256]byte) {
	for c := byte('0'); c <= '9'; c++ {
		lut[c] = c - '0'
	}
	for c := byte('a'); c <= 'f'; c++ {
		lut[c] = c - 'a' + 10
	}
	return
}()

// unhex decodes a single ASCII hex character. Invalid characters decode to
// 0 rather than failing; the attribute files this runs against are
// kernel-produced, and callers lean on the zero fallback when skipping the
// "0x" prefix pair. Pinned by TestUnhexPermissiveZero; do not strengthen to
// an error without auditing every caller.
func unhex(c byte) byte {
	return unhexLUT[c]
}
