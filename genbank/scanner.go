package genbank

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"

	"genebank/sequence"
	"genebank/window"
)

const (
	originToken = "ORIGIN"
	endToken    = "//"

	maxLineSize = 1 << 20
)

// Stats summarises one Scan.
type Stats struct {
	Lines   int64
	Records int64 // records whose ORIGIN section was read
	Symbols int64 // bases fed to the window
	Unknown int64 // ambiguous bases, each of which restarts the window
}

type Option func(*Scanner)

func WithLogger(log logger.Logger) Option {
	return func(s *Scanner) {
		s.log = log
	}
}

/*
Scanner reads GenBank flat files. Only the sequence section of each record,
between the ORIGIN line and the closing "//", is of interest: its bases are
fed one at a time to a sliding window, line numbers and spacing are skipped.
*/
type Scanner struct {
	r      io.Reader
	window *window.Window
	log    logger.Logger
	stats  Stats
}

func NewScanner(r io.Reader, w *window.Window, opts ...Option) *Scanner {
	s := &Scanner{r: r, window: w}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) Stats() Stats {
	return s.stats
}

// Scan reads r to the end. Errors from the window's sink abort the scan.
func (s *Scanner) Scan() error {
	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	inSequence := false
	for scanner.Scan() {
		s.stats.Lines++
		line := scanner.Text()
		if !inSequence {
			if hasToken(line, originToken) {
				inSequence = true
				s.window.Reset()
			}
			continue
		}
		if strings.TrimSpace(line) == endToken {
			inSequence = false
			s.window.Reset()
			s.stats.Records++
			s.debugf("record %d done at line %d", s.stats.Records, s.stats.Lines)
			continue
		}
		if err := s.feed(line); err != nil {
			return fmt.Errorf("genbank: line %d: %w", s.stats.Lines, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("genbank: line %d: %w", s.stats.Lines, err)
	}
	// a file may end without the closing marker
	if inSequence {
		s.stats.Records++
	}
	return nil
}

func (s *Scanner) feed(line string) error {
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case sequence.IsSymbol(c):
			s.stats.Symbols++
			if err := s.window.Add(c | 0x20); err != nil {
				return err
			}
		case c == 'n' || c == 'N':
			s.stats.Unknown++
			s.window.Reset()
		}
	}
	return nil
}

func (s *Scanner) debugf(format string, args ...any) {
	if s.log != nil {
		s.log.Debugf(format, args...)
	}
}

func hasToken(line, token string) bool {
	for _, f := range strings.Fields(line) {
		if f == token {
			return true
		}
	}
	return false
}
