package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"genebank/btree"
)

// Index is the part of *btree.Tree the shell drives.
type Index interface {
	Insert(kmer string) error
	Frequency(kmer string) (int, error)
	Dump(w io.Writer) error
	Stats() btree.Stats
	ReadOnly() bool
	SequenceLength() int
}

type Cli struct {
	scanner *bufio.Scanner
	tree    Index
	out     io.Writer
	prompt  *color.Color
	errs    *color.Color
	ok      *color.Color
}

func NewCli(s *bufio.Scanner, t Index, out io.Writer) *Cli {
	return &Cli{
		scanner: s,
		tree:    t,
		out:     out,
		prompt:  color.New(color.FgCyan),
		errs:    color.New(color.FgRed),
		ok:      color.New(color.FgGreen),
	}
}

// Start reads commands until EXIT or the end of input.
func (c *Cli) Start() {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		if !c.processInput(c.scanner.Text()) {
			return
		}
		c.printPrompt()
	}
}

func (c *Cli) printHelp() {
	mode, set := "read-only", ""
	if !c.tree.ReadOnly() {
		mode, set = "writable", "\n  SET <kmer>      Count one occurrence of a k-mer"
	}
	fmt.Fprintf(c.out, `
K-mer Index CLI (sequence length %d, %s)

Available Commands:%s
  GET <kmer>      Print how many times a k-mer was counted
  DUMP            Print every k-mer with its count, in order
  STATS           Print node cache and file statistics
  HELP            Print this message
  EXIT            Terminate this session
`, c.tree.SequenceLength(), mode, set)
}

func (c *Cli) printPrompt() {
	c.prompt.Fprint(c.out, "> ")
}

// processInput returns false once the session should end.
func (c *Cli) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return true
	}
	command := strings.ToLower(fields[0])
	switch command {
	default:
		c.errs.Fprintf(c.out, "Unknown command \"%s\"\n", command)
	case "set":
		c.processSetCommand(fields[1:])
	case "get":
		c.processGetCommand(fields[1:])
	case "dump":
		c.processDumpCommand(fields[1:])
	case "stats":
		c.processStatsCommand()
	case "help":
		c.printHelp()
	case "exit":
		return false
	}
	return true
}

func (c *Cli) processSetCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: SET <kmer>")
		return
	}
	if c.tree.ReadOnly() {
		c.errs.Fprintln(c.out, "Index was opened read-only.")
		return
	}
	if err := c.tree.Insert(args[0]); err != nil {
		c.errs.Fprintln(c.out, err)
		return
	}
	n, err := c.tree.Frequency(args[0])
	if err != nil {
		c.errs.Fprintln(c.out, err)
		return
	}
	c.ok.Fprintf(c.out, "%s: %d\n", strings.ToLower(args[0]), n)
}

func (c *Cli) processGetCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: GET <kmer>")
		return
	}
	n, err := c.tree.Frequency(args[0])
	if err != nil {
		c.errs.Fprintln(c.out, err)
		return
	}
	if n == 0 {
		fmt.Fprintln(c.out, "K-mer not found.")
		return
	}
	c.ok.Fprintf(c.out, "%s: %d\n", strings.ToLower(args[0]), n)
}

func (c *Cli) processDumpCommand(args []string) {
	if len(args) != 0 {
		fmt.Fprintln(c.out, "Usage: DUMP")
		return
	}
	if err := c.tree.Dump(c.out); err != nil {
		c.errs.Fprintln(c.out, err)
	}
}

func (c *Cli) processStatsCommand() {
	s := c.tree.Stats()
	fmt.Fprintf(c.out, "nodes %d, reads %d, writes %d, cache hits %d, misses %d, evictions %d\n",
		s.Nodes, s.Reads, s.Writes, s.CacheHits, s.CacheMisses, s.Evictions)
}
