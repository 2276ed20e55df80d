package dumpfile

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/golang/snappy"
)

// snappy framed streams open with a stream identifier chunk
var snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")

type Reader struct {
	file io.Closer
	r    io.Reader
}

// Open reads a dump written by Create, compressed or not.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file
	return r, nil
}

func NewReader(src io.Reader) (*Reader, error) {
	br := bufio.NewReader(src)
	head, err := br.Peek(len(snappyMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	r := &Reader{r: br}
	if bytes.Equal(head, snappyMagic) {
		r.r = snappy.NewReader(br)
	}
	return r, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	return r.r.Read(p)
}

func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
