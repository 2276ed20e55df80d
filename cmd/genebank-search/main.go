package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/fatih/color"

	"genebank/btree"
	"genebank/cli"
	"genebank/dumpfile"
)

var cacheSize, debugLevel *int
var logLevel *string
var interactive, viewDump *bool

func main() {
	setupFlags()
	if *viewDump {
		if flag.NArg() != 1 {
			flag.Usage()
			os.Exit(1)
		}
		if err := view(flag.Arg(0), os.Stdout); err != nil {
			color.New(color.FgRed).Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	if flag.NArg() < 1 || flag.NArg() > 2 || (flag.NArg() == 1 && !*interactive) {
		flag.Usage()
		os.Exit(1)
	}

	logger.New(*logLevel)
	defer logger.OnExit()

	if err := run(flag.Args()); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		logger.OnExit()
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	log := logger.Sugar.WithServiceName("genebank-search")
	if *debugLevel != 0 {
		return fmt.Errorf("the debug level can only be set to 0, %d was given", *debugLevel)
	}

	tree, err := btree.Open(args[0], btree.WithCacheSize(*cacheSize), btree.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, tree.Close())
	}()

	if len(args) == 2 {
		query, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer query.Close()
		out := bufio.NewWriter(os.Stdout)
		if err := search(tree, query, out, os.Stderr); err != nil {
			return err
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}

	if *interactive {
		demo := cli.NewCli(bufio.NewScanner(os.Stdin), tree, os.Stdout)
		demo.Start()
	}
	log.Debugf("%s: %+v", args[0], tree.Stats())
	return nil
}

// search prints "<kmer>: <count>" for every whitespace separated query found
// in the index. Queries of the wrong length are reported and skipped.
func search(tree *btree.Tree, query io.Reader, out, errs io.Writer) error {
	scanner := bufio.NewScanner(query)
	for scanner.Scan() {
		for _, token := range strings.Fields(scanner.Text()) {
			if len(token) != tree.SequenceLength() {
				fmt.Fprintf(errs, "Sequence %s is not the correct length.\n", token)
				continue
			}
			n, err := tree.Frequency(token)
			if errors.Is(err, btree.ErrInvalidInput) {
				fmt.Fprintln(errs, err)
				continue
			}
			if err != nil {
				return err
			}
			if n > 0 {
				fmt.Fprintf(out, "%s: %d\n", strings.ToLower(token), n)
			}
		}
	}
	return scanner.Err()
}

// view copies a dump file to out, decompressing it if it was written with -compress.
func view(path string, out io.Writer) error {
	r, err := dumpfile.Open(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		r.Close()
		return err
	}
	return r.Close()
}

func setupFlags() {
	cacheSize = flag.Int("cache", 0, "Number of B-tree nodes to keep in memory, 0 disables the cache.")
	debugLevel = flag.Int("debug", 0, "Only 0 is supported: report problems on stderr.")
	logLevel = flag.String("log", "INFO", "Log level: DEBUG, INFO, WARN, ERROR or NOOP.")
	interactive = flag.Bool("i", false, "Start an interactive shell after the queries, the query file is then optional.")
	viewDump = flag.Bool("view", false, "Print the dump file given as the only argument instead of searching.")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "\nUsage: genebank-search [flags] <btree file> [<query file>]")
		fmt.Fprintln(os.Stderr, "       genebank-search -view <dump file>\n\nFlags:")
		flag.PrintDefaults()
	}
	flag.Parse()
}
