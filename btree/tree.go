package btree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"genebank/sequence"
)

/*
Tree is a B-tree of k-mer counts stored in a single file.
It only keeps the root node in memory permanently; other nodes are read from
the file on demand and optionally held in an LRU cache between operations.
A Tree is not safe for concurrent use.
*/
type Tree struct {
	store *store
	root  *node
	codec *sequence.Codec
	err   error // sticky I/O failure, the file can no longer be trusted
}

func newOptions(opts []Option) (Options, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.cacheSize < 0 {
		return o, fmt.Errorf("%w: negative cache size of %d was given", ErrInvalidConfiguration, o.cacheSize)
	}
	return o, nil
}

/*
Create truncates or creates the file at path and writes an empty tree to it.
A degree of 0 picks DefaultDegree. Nothing is written to disk if the
configuration is invalid, and the file is removed again if setting it up fails.
*/
func Create(path string, degree, length int, opts ...Option) (*Tree, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	if degree == 0 {
		degree = DefaultDegree
	} else if degree < 2 || degree > MaxDegree {
		return nil, fmt.Errorf("%w: degree %d was given, it must be 0 or between 2 and %d",
			ErrInvalidConfiguration, degree, MaxDegree)
	}
	codec, err := sequence.NewCodec(length)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	h := header{root: headerSize, degree: degree, length: length}
	buf := make([]byte, headerSize)
	encodeHeader(buf, h)
	if _, err := file.WriteAt(buf, 0); err != nil {
		return nil, discard(file, fmt.Errorf("btree: write header: %w", err))
	}

	t := &Tree{
		store: newStore(file, h, headerSize, false, o),
		codec: codec,
	}
	if t.root, err = t.store.alloc(); err != nil {
		return nil, discard(file, err)
	}
	if o.log != nil {
		o.log.Infof("created %s: degree %d, sequence length %d, cache %d", path, degree, length, o.cacheSize)
	}
	return t, nil
}

// discard closes and removes a file Create could not finish.
func discard(file *os.File, err error) error {
	return errors.Join(err, file.Close(), os.Remove(file.Name()))
}

// Open opens an existing tree read-only.
func Open(path string, opts ...Option) (*Tree, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	t, err := open(file, o)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("btree: open %s: %w", path, err)
	}
	if o.log != nil {
		o.log.Infof("opened %s: degree %d, sequence length %d, cache %d",
			path, t.store.degree, t.store.length, o.cacheSize)
	}
	return t, nil
}

func open(file *os.File, o Options) (*Tree, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(file, buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptHeader, err)
	}
	h, err := decodeHeader(buf)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if h.root+int64(recordSize(h.degree)) > info.Size() {
		return nil, fmt.Errorf("%w: root offset %d beyond end of file %d", ErrCorruptHeader, h.root, info.Size())
	}
	codec, err := sequence.NewCodec(h.length)
	if err != nil {
		return nil, err
	}
	t := &Tree{
		store: newStore(file, h, info.Size(), true, o),
		codec: codec,
	}
	if t.root, err = t.store.read(h.root); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) Degree() int {
	return t.store.degree
}

func (t *Tree) SequenceLength() int {
	return t.store.length
}

func (t *Tree) CacheSize() int {
	if t.store.cache == nil {
		return 0
	}
	return t.store.cache.capacity
}

func (t *Tree) ReadOnly() bool {
	return t.store.readOnly
}

func (t *Tree) Stats() Stats {
	return t.store.stats
}

func (t *Tree) usable() error {
	if t.store.file == nil {
		return ErrClosed
	}
	return t.err
}

// fail records an I/O failure; every later operation returns it.
func (t *Tree) fail(err error) error {
	t.err = err
	return err
}

/*
Create a new root node.
The existing root is written out and becomes the new root's only child, which
is then split, growing the tree by one level.
*/
func (t *Tree) splitRoot() error {
	if err := t.store.write(t.root); err != nil {
		return err
	}
	root, err := t.store.alloc()
	if err != nil {
		return err
	}
	root.children = append(root.children, t.root.offset)
	t.root = root
	t.store.debugf("root split, new root at %d", root.offset)
	return root.split(t.store, 0)
}

// Insert counts one occurrence of kmer.
func (t *Tree) Insert(kmer string) error {
	if err := t.usable(); err != nil {
		return err
	}
	if t.store.readOnly {
		return ErrReadOnly
	}
	seq, err := t.codec.Encode(kmer)
	if err != nil {
		return err
	}

	// The tree root is full, so perform a split on the root.
	if t.root.isFull(t.store.degree) {
		if err := t.splitRoot(); err != nil {
			return t.fail(err)
		}
	}
	if err := t.root.insert(t.store, seq); err != nil {
		return t.fail(err)
	}
	return nil
}

// Frequency returns how many times kmer was inserted, 0 if it never was.
func (t *Tree) Frequency(kmer string) (int, error) {
	if err := t.usable(); err != nil {
		return 0, err
	}
	seq, err := t.codec.Encode(kmer)
	if err != nil {
		return 0, err
	}
	count, err := t.root.frequency(t.store, seq)
	if err != nil {
		return 0, t.fail(err)
	}
	return int(count), nil
}

// Dump writes every k-mer in ascending order as "<count> <SEQUENCE>" lines.
func (t *Tree) Dump(w io.Writer) error {
	if err := t.usable(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if err := t.root.dump(t.store, bw); err != nil {
		return t.fail(err)
	}
	return bw.Flush()
}

/*
Close makes sure everything is written to disk and closes the file. The root
offset in the header is rewritten since a root split moves the root.
The Tree is not usable after Close.
*/
func (t *Tree) Close() error {
	s := t.store
	if s.file == nil {
		return ErrClosed
	}
	var err error
	if !s.readOnly && t.err == nil {
		err = t.writeBack()
	}
	err = errors.Join(err, s.file.Close())
	s.file = nil
	if s.log != nil {
		s.log.Debugf("closed: %+v", s.stats)
	}
	return err
}

func (t *Tree) writeBack() error {
	s := t.store
	buf := make([]byte, headerSize)
	encodeHeader(buf, header{root: t.root.offset, degree: s.degree, length: s.length})
	if _, err := s.file.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("btree: write header: %w", err)
	}
	if err := s.write(t.root); err != nil {
		return err
	}
	if err := s.flush(); err != nil {
		return err
	}
	return s.file.Sync()
}
