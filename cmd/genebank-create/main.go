package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/fatih/color"
	"github.com/go-faker/faker/v4"

	"genebank/btree"
	"genebank/cli"
	"genebank/dumpfile"
	"genebank/genbank"
	"genebank/window"
)

var cacheSize, degree, sequenceLength, debugLevel, seedNumRecords *int
var dumpPath, logLevel *string
var compressDump, interactive *bool

var stdin io.Reader = os.Stdin
var stdout io.Writer = os.Stdout

func main() {
	setupFlags()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	logger.New(*logLevel)
	defer logger.OnExit()

	if err := run(flag.Arg(0)); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		logger.OnExit()
		os.Exit(1)
	}
}

func run(gbkFile string) error {
	log := logger.Sugar.WithServiceName("genebank-create")
	if *debugLevel < 0 || *debugLevel > 1 {
		return fmt.Errorf("the debug level can only be set to 0 or 1, %d was given", *debugLevel)
	}

	t := *degree
	if t == 0 {
		t = btree.DefaultDegree
	}
	indexFile := fmt.Sprintf("%s.btree.data.%d.%d", gbkFile, *sequenceLength, t)

	in, err := os.Open(gbkFile)
	if err != nil {
		return err
	}
	defer in.Close()

	tree, err := btree.Create(indexFile, *degree, *sequenceLength,
		btree.WithCacheSize(*cacheSize), btree.WithLogger(log))
	if err != nil {
		return err
	}
	w, err := window.New(*sequenceLength, tree)
	if err != nil {
		tree.Close()
		return err
	}

	scanner := genbank.NewScanner(in, w, genbank.WithLogger(log))
	if err := scanner.Scan(); err != nil {
		tree.Close()
		return err
	}
	stats := scanner.Stats()
	log.Infof("%s: %d records, %d bases, %d k-mers", gbkFile, stats.Records, stats.Symbols, w.Emitted())

	if *seedNumRecords > 0 {
		if err := seedIndexWithTestRecords(tree, *seedNumRecords); err != nil {
			tree.Close()
			return err
		}
	}

	if *interactive {
		shell := cli.NewCli(bufio.NewScanner(stdin), tree, stdout)
		shell.Start()
	}

	if *debugLevel == 1 {
		if err := dump(tree); err != nil {
			tree.Close()
			return err
		}
	}

	log.Debugf("%s: %+v", indexFile, tree.Stats())
	if err := tree.Close(); err != nil {
		return err
	}
	fmt.Fprintln(stdout, indexFile)
	return nil
}

func dump(tree *btree.Tree) error {
	out, err := dumpfile.Create(*dumpPath, *compressDump)
	if err != nil {
		return err
	}
	if err := tree.Dump(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// seedIndexWithTestRecords counts n synthetic k-mers spelled from go-faker words.
func seedIndexWithTestRecords(tree *btree.Tree, n int) error {
	var sb strings.Builder
	for i := 0; i < n; {
		for _, r := range faker.Word() {
			sb.WriteByte("acgt"[int(r)%4])
			if sb.Len() < *sequenceLength {
				continue
			}
			if err := tree.Insert(sb.String()); err != nil {
				return err
			}
			sb.Reset()
			if i++; i == n {
				break
			}
		}
	}
	return nil
}

func setupFlags() {
	cacheSize = flag.Int("cache", 0, "Number of B-tree nodes to keep in memory, 0 disables the cache.")
	degree = flag.Int("degree", 0, "B-tree degree, 0 picks the degree that fills a 4 KiB disk block.")
	sequenceLength = flag.Int("k", 0, "Length of the k-mers to count, between 1 and 31.")
	debugLevel = flag.Int("debug", 0, "0 reports progress on stderr, 1 also writes a dump of the index.")
	dumpPath = flag.String("dump", "dump", "Where to write the dump when -debug=1.")
	compressDump = flag.Bool("compress", false, "Compress the dump with snappy.")
	seedNumRecords = flag.Int("seed", 0, "Amount of synthetic k-mers created with go-faker to add after the input.")
	interactive = flag.Bool("i", false, "Start an interactive shell on the new index before it is closed.")
	logLevel = flag.String("log", "INFO", "Log level: DEBUG, INFO, WARN, ERROR or NOOP.")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "\nUsage: genebank-create [flags] <gbk file>\n\nFlags:")
		flag.PrintDefaults()
	}
	flag.Parse()
}
