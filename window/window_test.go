package window

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genebank/sequence"
)

type collector struct {
	kmers []string
	err   error
}

func (c *collector) Insert(kmer string) error {
	c.kmers = append(c.kmers, kmer)
	return c.err
}

func addAll(t *testing.T, w *Window, symbols string) {
	t.Helper()
	for i := 0; i < len(symbols); i++ {
		require.NoError(t, w.Add(symbols[i]))
	}
}

func TestWindowEmitsEveryStartPosition(t *testing.T) {
	c := &collector{}
	w, err := New(3, c)
	require.NoError(t, err)

	addAll(t, w, "acgtac")
	assert.Equal(t, []string{"acg", "cgt", "gta", "tac"}, c.kmers)
	assert.Equal(t, int64(4), w.Emitted())
	assert.Equal(t, 3, w.Len())
}

func TestWindowReset(t *testing.T) {
	c := &collector{}
	w, err := New(2, c)
	require.NoError(t, err)

	addAll(t, w, "ac")
	w.Reset()
	addAll(t, w, "g")
	assert.Equal(t, []string{"ac"}, c.kmers, "no k-mer spans a reset")
	addAll(t, w, "t")
	assert.Equal(t, []string{"ac", "gt"}, c.kmers)
}

func TestWindowLengthOne(t *testing.T) {
	c := &collector{}
	w, err := New(1, c)
	require.NoError(t, err)

	addAll(t, w, "gatc")
	assert.Equal(t, []string{"g", "a", "t", "c"}, c.kmers)
}

func TestWindowInvalidLength(t *testing.T) {
	_, err := New(0, &collector{})
	require.ErrorIs(t, err, sequence.ErrInvalidLength)
	_, err = New(32, &collector{})
	require.ErrorIs(t, err, sequence.ErrInvalidLength)
}

func TestWindowSinkError(t *testing.T) {
	boom := errors.New("boom")
	w, err := New(2, &collector{err: boom})
	require.NoError(t, err)

	require.NoError(t, w.Add('a'))
	require.ErrorIs(t, w.Add('c'), boom)
}
