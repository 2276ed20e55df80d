package dumpfile

import (
	"bufio"
	"io"
	"os"

	"github.com/golang/snappy"
)

// the file, or anything else that can be synced to stable storage
type syncCloser interface {
	io.Writer
	io.Closer
	Sync() error
}

// Writer buffers dump lines on their way to a file, optionally through a
// snappy framed stream.
type Writer struct {
	file syncCloser
	bw   *bufio.Writer
	sz   *snappy.Writer // nil when writing plain text
}

func Create(path string, compress bool) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewWriter(file, compress), nil
}

func NewWriter(file syncCloser, compress bool) *Writer {
	w := &Writer{file: file}
	var dst io.Writer = file
	if compress {
		w.sz = snappy.NewBufferedWriter(file)
		dst = w.sz
	}
	w.bw = bufio.NewWriter(dst)
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.bw.Write(p)
}

func (w *Writer) Close() error {
	// Flush any remaining data from the buffer.
	err := w.bw.Flush()
	if err != nil {
		return err
	}

	// Emit the last snappy chunk, this does not close the file.
	if w.sz != nil {
		if err = w.sz.Close(); err != nil {
			return err
		}
	}

	// Force OS to flush its I/O buffers and write data to disk.
	err = w.file.Sync()
	if err != nil {
		return err
	}

	err = w.file.Close()
	w.bw = nil
	w.sz = nil
	w.file = nil
	return err
}
