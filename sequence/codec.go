package sequence

import (
	"errors"
	"fmt"
)

const (
	MinLength = 1
	MaxLength = 31 // 2 bits per symbol, 62 bits fit in the low end of a uint64
)

var (
	ErrInvalidInput  = errors.New("invalid sequence")
	ErrInvalidLength = errors.New("sequence length must be between 1 and 31 (inclusive)")
)

// A=00, C=01, G=10, T=11
var symbols = [4]byte{'A', 'C', 'G', 'T'}

// Codec packs fixed-length strings over {A,C,G,T} into 2 bits per symbol.
type Codec struct {
	length int
}

func NewCodec(length int) (*Codec, error) {
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("%w: %d was given", ErrInvalidLength, length)
	}
	return &Codec{length: length}, nil
}

func (c *Codec) Length() int {
	return c.length
}

// Encode packs s most-significant symbol first. Case is ignored.
func (c *Codec) Encode(s string) (uint64, error) {
	if len(s) != c.length {
		return 0, fmt.Errorf("%w: %q has length %d, expected %d", ErrInvalidInput, s, len(s), c.length)
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		bits, ok := symbolBits(s[i])
		if !ok {
			return 0, fmt.Errorf("%w: unexpected character %q in %q", ErrInvalidInput, s[i], s)
		}
		v = v<<2 | bits
	}
	return v, nil
}

func (c *Codec) Decode(v uint64) string {
	return Decode(v, c.length)
}

// Decode unpacks the low 2*length bits of v, last symbol first. Output is uppercase.
func Decode(v uint64, length int) string {
	buf := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		buf[i] = symbols[v&0x3]
		v >>= 2
	}
	return string(buf)
}

func symbolBits(b byte) (uint64, bool) {
	switch b {
	case 'a', 'A':
		return 0x0, true
	case 'c', 'C':
		return 0x1, true
	case 'g', 'G':
		return 0x2, true
	case 't', 'T':
		return 0x3, true
	}
	return 0, false
}

// IsSymbol reports whether b is one of a, c, g, t in either case.
func IsSymbol(b byte) bool {
	_, ok := symbolBits(b)
	return ok
}
