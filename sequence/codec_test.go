package sequence

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodecLength(t *testing.T) {
	for _, n := range []int{0, -1, 32, 64} {
		_, err := NewCodec(n)
		require.ErrorIs(t, err, ErrInvalidLength, "length %d", n)
	}
	for _, n := range []int{1, 16, 31} {
		c, err := NewCodec(n)
		require.NoError(t, err)
		assert.Equal(t, n, c.Length())
	}
}

func TestEncodeKnownValues(t *testing.T) {
	c, err := NewCodec(3)
	require.NoError(t, err)

	tests := []struct {
		in   string
		want uint64
	}{
		{"AAA", 0},
		{"AAC", 1},
		{"ACG", 0b000110},
		{"TTT", 0b111111},
		{"gat", 0b100011},
		{"CcC", 0b010101},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := c.Encode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.ToUpper(tt.in), c.Decode(got))
		})
	}
}

func TestEncodeInvalidInput(t *testing.T) {
	c, err := NewCodec(4)
	require.NoError(t, err)

	for _, in := range []string{"", "ACG", "ACGTA", "ACGN", "AC T", "acgu"} {
		_, err := c.Encode(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrInvalidInput), in)
	}
}

func TestEncodeMaxLength(t *testing.T) {
	c, err := NewCodec(MaxLength)
	require.NoError(t, err)

	v, err := c.Encode(strings.Repeat("T", MaxLength))
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<62-1, v)
	assert.Zero(t, v>>62, "no bits above 62")
	assert.Equal(t, int64(v), int64(uint64(1)<<62-1), "stays positive as int64")
	assert.Equal(t, strings.Repeat("T", MaxLength), c.Decode(v))
}

func TestRoundTripRandom(t *testing.T) {
	for n := MinLength; n <= MaxLength; n++ {
		c, err := NewCodec(n)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			s := randomKmer(t, n)
			v, err := c.Encode(s)
			require.NoError(t, err)
			require.Equal(t, strings.ToUpper(s), c.Decode(v))
		}
	}
}

func TestIsSymbol(t *testing.T) {
	for _, b := range []byte("acgtACGT") {
		assert.True(t, IsSymbol(b))
	}
	for _, b := range []byte("nNuU 1/") {
		assert.False(t, IsSymbol(b))
	}
}

// randomKmer maps faker text onto the alphabet so the round trip sees mixed case.
func randomKmer(t *testing.T, n int) string {
	t.Helper()
	var sb strings.Builder
	for sb.Len() < n {
		for _, r := range faker.Word() {
			if sb.Len() == n {
				break
			}
			s := symbols[int(r)%4]
			if r%2 == 0 {
				s += 'a' - 'A'
			}
			sb.WriteByte(s)
		}
	}
	return sb.String()
}
