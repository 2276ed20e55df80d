package btree

import (
	"fmt"
	"math"
	"os"

	"github.com/datatrails/go-datatrails-common/logger"
)

// Stats counts node traffic between the tree and its backing file.
type Stats struct {
	Nodes       int64 // records in the file
	Reads       int64
	Writes      int64
	CacheHits   int64
	CacheMisses int64
	Evictions   int64
}

// store owns the backing file and the node cache. Every node operation that
// needs I/O goes through it; nodes refer to each other only by file offset.
type store struct {
	file       *os.File
	degree     int
	length     int
	recordSize int
	end        int64 // current file length, where the next record is allocated
	readOnly   bool
	cache      *cache // nil when caching is disabled
	buf        []byte // scratch record
	stats      Stats
	log        logger.Logger
}

func newStore(file *os.File, h header, end int64, readOnly bool, opts Options) *store {
	s := &store{
		file:       file,
		degree:     h.degree,
		length:     h.length,
		recordSize: recordSize(h.degree),
		end:        end,
		readOnly:   readOnly,
		log:        opts.log,
	}
	s.buf = make([]byte, s.recordSize)
	s.stats.Nodes = (end - headerSize) / int64(s.recordSize)
	if opts.cacheSize > 0 {
		s.cache = newCache(opts.cacheSize, s.writeBack)
	}
	return s
}

func (s *store) debugf(format string, args ...any) {
	if s.log != nil {
		s.log.Debugf(format, args...)
	}
}

// alloc reserves a zeroed record at the end of the file for a new, empty node.
func (s *store) alloc() (*node, error) {
	offset := s.end
	end := offset + int64(s.recordSize)
	if end > math.MaxInt32 {
		return nil, fmt.Errorf("%w: allocating %d bytes at %d", ErrFileTooLarge, s.recordSize, offset)
	}
	if err := s.file.Truncate(end); err != nil {
		return nil, fmt.Errorf("btree: allocate node at %d: %w", offset, err)
	}
	s.end = end
	s.stats.Nodes++
	return &node{offset: offset}, nil
}

func (s *store) read(offset int64) (*node, error) {
	if _, err := s.file.ReadAt(s.buf, offset); err != nil {
		return nil, fmt.Errorf("btree: read node at %d: %w", offset, err)
	}
	s.stats.Reads++
	return decodeNode(s.buf, offset, s.degree)
}

func (s *store) write(n *node) error {
	if s.readOnly {
		return fmt.Errorf("%w: write node at %d", ErrReadOnly, n.offset)
	}
	encodeNode(s.buf, n, s.degree)
	if _, err := s.file.WriteAt(s.buf, n.offset); err != nil {
		return fmt.Errorf("btree: write node at %d: %w", n.offset, err)
	}
	n.dirty = false
	s.stats.Writes++
	return nil
}

// writeBack is called for nodes leaving the cache.
func (s *store) writeBack(n *node) error {
	s.stats.Evictions++
	if !n.dirty {
		return nil
	}
	return s.write(n)
}

// persist records a mutation of n. Resident nodes are written when they leave
// the cache, everything else is written through immediately.
func (s *store) persist(n *node) error {
	n.dirty = true
	if n.cached {
		return nil
	}
	return s.write(n)
}

// child returns the node at n.children[i], from the cache when resident.
func (s *store) child(n *node, i int) (*node, error) {
	if n.isLeaf() {
		panic(fmt.Sprintf("btree: child %d requested of leaf node at %d", i, n.offset))
	}
	offset := n.children[i]
	if s.cache == nil {
		return s.read(offset)
	}
	if c := s.cache.lookup(offset); c != nil {
		s.stats.CacheHits++
		return c, nil
	}
	s.stats.CacheMisses++
	c, err := s.read(offset)
	if err != nil {
		return nil, err
	}
	if err := s.cache.register(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *store) flush() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.flushAll()
}
