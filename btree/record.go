package btree

import (
	"encoding/binary"
	"fmt"
	"math"
)

/*
File layout (big-endian):

	header:  rootOffset int32 | degree int32 | sequenceLength int32
	records: fixed size nodes of 32*t-12 bytes, appended after the header

Record layout for degree t:

	2t-1 item slots:  count int32 | seq int64   (count 0 marks an absent slot)
	2t child slots:   offset int32              (only len(items)+1 written, first 0 marks a leaf)
*/
const (
	headerSize   = 12
	itemSize     = 4 + 8
	childPtrSize = 4

	// DefaultDegree fills a 4 KiB disk block: 32*128-12 = 4084 bytes per record.
	DefaultDegree = (4096 + 12) / 32

	// MaxDegree is the largest degree whose first record still ends below 2^31.
	MaxDegree = math.MaxInt32 / 32
)

type header struct {
	root   int64
	degree int
	length int
}

func recordSize(degree int) int {
	return 32*degree - 12
}

func maxItems(degree int) int {
	return 2*degree - 1
}

func encodeHeader(buf []byte, h header) {
	binary.BigEndian.PutUint32(buf[0:4], uint32(h.root))
	binary.BigEndian.PutUint32(buf[4:8], uint32(h.degree))
	binary.BigEndian.PutUint32(buf[8:12], uint32(h.length))
}

func decodeHeader(buf []byte) (header, error) {
	if len(buf) < headerSize {
		return header{}, fmt.Errorf("%w: %d bytes", ErrCorruptHeader, len(buf))
	}
	h := header{
		root:   int64(int32(binary.BigEndian.Uint32(buf[0:4]))),
		degree: int(int32(binary.BigEndian.Uint32(buf[4:8]))),
		length: int(int32(binary.BigEndian.Uint32(buf[8:12]))),
	}
	if h.degree < 2 || h.degree > MaxDegree {
		return header{}, fmt.Errorf("%w: degree %d", ErrCorruptHeader, h.degree)
	}
	if h.length < 1 || h.length > 31 {
		return header{}, fmt.Errorf("%w: sequence length %d", ErrCorruptHeader, h.length)
	}
	if h.root < headerSize {
		return header{}, fmt.Errorf("%w: root offset %d", ErrCorruptHeader, h.root)
	}
	return h, nil
}

// encodeNode writes n into buf, which must be exactly recordSize(degree) long.
func encodeNode(buf []byte, n *node, degree int) {
	clear(buf)
	off := 0
	for _, it := range n.items {
		binary.BigEndian.PutUint32(buf[off:off+4], uint32(it.count))
		binary.BigEndian.PutUint64(buf[off+4:off+12], it.seq)
		off += itemSize
	}
	// absent slots are already zero
	off = maxItems(degree) * itemSize
	for _, child := range n.children {
		binary.BigEndian.PutUint32(buf[off:off+4], uint32(child))
		off += childPtrSize
	}
}

func decodeNode(buf []byte, offset int64, degree int) (*node, error) {
	if len(buf) != recordSize(degree) {
		return nil, fmt.Errorf("%w: record at %d is %d bytes", ErrCorruptRecord, offset, len(buf))
	}
	n := &node{offset: offset}
	off := 0
	for i := 0; i < maxItems(degree); i++ {
		count := int32(binary.BigEndian.Uint32(buf[off : off+4]))
		seq := binary.BigEndian.Uint64(buf[off+4 : off+12])
		off += itemSize
		if count == 0 {
			continue
		}
		if l := len(n.items); l > 0 && n.items[l-1].seq >= seq {
			return nil, fmt.Errorf("%w: items out of order at %d", ErrCorruptRecord, offset)
		}
		n.items = append(n.items, item{seq: seq, count: count})
	}

	// offset 0 is the header, so it never names a child
	first := int64(int32(binary.BigEndian.Uint32(buf[off : off+4])))
	if first == 0 {
		return n, nil
	}
	n.children = make([]int64, 0, len(n.items)+1)
	for i := 0; i <= len(n.items); i++ {
		child := int64(int32(binary.BigEndian.Uint32(buf[off : off+4])))
		if child < headerSize {
			return nil, fmt.Errorf("%w: child %d of node %d points at %d", ErrCorruptRecord, i, offset, child)
		}
		n.children = append(n.children, child)
		off += childPtrSize
	}
	return n, nil
}
