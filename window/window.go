package window

import "genebank/sequence"

// Sink receives every complete k-mer seen by a Window.
type Sink interface {
	Insert(kmer string) error
}

/*
Window slides over a stream of symbols and hands each run of length
consecutive symbols to its sink. The buffer is a ring so that adding a
symbol never shifts the ones already held.
*/
type Window struct {
	sink    Sink
	ring    []byte
	start   int // oldest symbol
	filled  int
	out     []byte // scratch for the k-mer handed to the sink
	emitted int64
}

func New(length int, sink Sink) (*Window, error) {
	if _, err := sequence.NewCodec(length); err != nil {
		return nil, err
	}
	return &Window{
		sink: sink,
		ring: make([]byte, length),
		out:  make([]byte, length),
	}, nil
}

func (w *Window) Len() int {
	return len(w.ring)
}

// Emitted is the number of k-mers passed to the sink so far.
func (w *Window) Emitted() int64 {
	return w.emitted
}

// Add appends one symbol. Once the window is full every Add emits a k-mer.
func (w *Window) Add(symbol byte) error {
	k := len(w.ring)
	if w.filled < k {
		w.ring[(w.start+w.filled)%k] = symbol
		w.filled++
	} else {
		w.ring[w.start] = symbol
		w.start = (w.start + 1) % k
	}
	if w.filled < k {
		return nil
	}
	n := copy(w.out, w.ring[w.start:])
	copy(w.out[n:], w.ring[:w.start])
	w.emitted++
	return w.sink.Insert(string(w.out))
}

// Reset drops every held symbol, so no k-mer spans the boundary.
func (w *Window) Reset() {
	w.start, w.filled = 0, 0
}
