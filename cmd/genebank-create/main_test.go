package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genebank/btree"
	"genebank/dumpfile"
)

const record = `LOCUS       TEST                      10 bp    DNA     linear   PRI 01-JAN-2000
ORIGIN
        1 aaaaaacccc
//
`

func setFlags(t *testing.T, dir string, k, debug, seed int, compress bool) {
	t.Helper()
	zero, dbg, length, s, shell := 0, debug, k, seed, false
	dump, level := filepath.Join(dir, "dump"), "NOOP"
	cacheSize, degree, sequenceLength, debugLevel, seedNumRecords = &zero, &zero, &length, &dbg, &s
	dumpPath, logLevel, compressDump, interactive = &dump, &level, &compress, &shell
	stdin, stdout = strings.NewReader(""), io.Discard
	logger.New(level)
}

func readDump(t *testing.T) string {
	t.Helper()
	r, err := dumpfile.Open(*dumpPath)
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(got)
}

func TestRunBuildsIndexAndDump(t *testing.T) {
	dir := t.TempDir()
	gbk := filepath.Join(dir, "test.gbk")
	require.NoError(t, os.WriteFile(gbk, []byte(record), 0o644))

	for _, compress := range []bool{false, true} {
		setFlags(t, dir, 3, 1, 0, compress)
		require.NoError(t, run(gbk))

		tree, err := btree.Open(filepath.Join(dir, "test.gbk.btree.data.3.128"))
		require.NoError(t, err)
		for k, want := range map[string]int{"AAA": 4, "AAC": 1, "ACC": 1, "CCC": 2, "GGG": 0} {
			got, err := tree.Frequency(k)
			require.NoError(t, err)
			assert.Equal(t, want, got, k)
		}
		require.NoError(t, tree.Close())

		assert.Equal(t, "4 AAA\n1 AAC\n1 ACC\n2 CCC\n", readDump(t))
	}
}

func TestRunSeed(t *testing.T) {
	dir := t.TempDir()
	gbk := filepath.Join(dir, "empty.gbk")
	require.NoError(t, os.WriteFile(gbk, nil, 0o644))

	setFlags(t, dir, 5, 1, 40, false)
	require.NoError(t, run(gbk))

	tree, err := btree.Open(filepath.Join(dir, "empty.gbk.btree.data.5.128"))
	require.NoError(t, err)
	defer tree.Close()
	assert.Equal(t, int64(1), tree.Stats().Nodes)

	total := 0
	scanner := bufio.NewScanner(strings.NewReader(readDump(t)))
	for scanner.Scan() {
		var count int
		var kmer string
		_, err := fmt.Sscanf(scanner.Text(), "%d %s", &count, &kmer)
		require.NoError(t, err)
		assert.Len(t, kmer, 5)
		got, err := tree.Frequency(kmer)
		require.NoError(t, err)
		assert.Equal(t, count, got, kmer)
		total += count
	}
	assert.Equal(t, 40, total, "every seeded k-mer is counted")
}

func TestRunInteractiveShell(t *testing.T) {
	dir := t.TempDir()
	gbk := filepath.Join(dir, "test.gbk")
	require.NoError(t, os.WriteFile(gbk, []byte(record), 0o644))

	setFlags(t, dir, 3, 1, 0, false)
	shell := true
	interactive = &shell
	color.NoColor = true
	var out bytes.Buffer
	stdin, stdout = strings.NewReader("SET ggg\nSET aaa\nGET aaa\nEXIT\n"), &out
	require.NoError(t, run(gbk))

	assert.Contains(t, out.String(), "ggg: 1\n")
	assert.Contains(t, out.String(), "aaa: 5\n")
	assert.NotContains(t, out.String(), "read-only")
	assert.True(t, strings.HasSuffix(out.String(), "test.gbk.btree.data.3.128\n"))
	assert.Equal(t, "5 AAA\n1 AAC\n1 ACC\n2 CCC\n1 GGG\n", readDump(t))
}

func TestRunRejectsBadConfiguration(t *testing.T) {
	dir := t.TempDir()
	gbk := filepath.Join(dir, "test.gbk")
	require.NoError(t, os.WriteFile(gbk, []byte(record), 0o644))

	setFlags(t, dir, 32, 0, 0, false)
	require.ErrorIs(t, run(gbk), btree.ErrInvalidConfiguration)

	setFlags(t, dir, 3, 2, 0, false)
	require.Error(t, run(gbk))

	setFlags(t, dir, 3, 0, 0, false)
	require.ErrorIs(t, run(filepath.Join(dir, "missing.gbk")), os.ErrNotExist)
}
