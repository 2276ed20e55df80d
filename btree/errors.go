package btree

import (
	"errors"

	"genebank/sequence"
)

var (
	ErrInvalidConfiguration = errors.New("invalid btree configuration")
	ErrReadOnly             = errors.New("btree was opened read-only")
	ErrClosed               = errors.New("btree is closed")
	ErrCorruptHeader        = errors.New("btree file header is short or badly formed")
	ErrCorruptRecord        = errors.New("btree node record is badly formed")
	ErrFileTooLarge         = errors.New("btree file offsets no longer fit in 32 bits")
)

// ErrInvalidInput is returned by Insert and Frequency for k-mers of the wrong
// length or with characters outside {A,C,G,T}.
var ErrInvalidInput = sequence.ErrInvalidInput
