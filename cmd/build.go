package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kmnip/rnabloom/bloom"
	"github.com/kmnip/rnabloom/graph"
	"github.com/kmnip/rnabloom/hash"
	"github.com/kmnip/rnabloom/internal"
	"github.com/kmnip/rnabloom/populate"
	"github.com/kmnip/rnabloom/seqio"
)

const buildHelp = `rnabloom build: populate a de Bruijn graph and write its snapshot.

Usage: rnabloom build [options] <input.fa|input.fq|dir> ...

Options:
  -k int              k-mer length (default 25)
  -numhash int         number of hash functions per filter (default 2)
  -stranded            treat sequences as single-stranded (default: canonical, both strands)
  -expected-kmers uint estimated distinct k-mer count, sizes -dbg-bits via -max-fpr (0 disables)
  -max-fpr float       target membership-filter false-positive rate (default 0.01)
  -target-memory uint  membership filter size as a memory budget in bytes (overrides -max-fpr sizing)
  -dbg-bits uint       explicit membership filter size in bits, used only when neither of the above is set (default 1<<30)
  -cbf-size uint       counting filter capacity (default 1<<30)
  -pkbf-bits uint      fragment paired-k-mer filter size in bits (0 disables)
  -rpkbf-bits uint     read paired-k-mer filter size in bits (0 disables); the snapshot
                       stores one paired-filter size, so a non-zero value must equal -pkbf-bits
  -d-frag int          fragment paired-k-mer distance (default 0, disabled)
  -d-read int          read paired-k-mer distance (default 0, disabled)
  -workers int         population pipeline worker count (default GOMAXPROCS)
  -batch-size int      records per pipeline batch (default package default)
  -min-qual int        FASTQ quality threshold below which bases are masked
  -add-if-present      merge mode: only bump counts of k-mers already in the graph
  -o string            output snapshot path (required)
  -timed               log elapsed time for the population phase
  -log-dir string      write a mirrored log file under this directory
` + HelpMessage

// Build implements the "build" subcommand: reads one or more sequence
// sources, populates a fresh graph.Graph, and writes its Bloom filter
// snapshot to disk.
func Build() {
	var flags flag.FlagSet
	k := flags.Int("k", 25, "")
	numHash := flags.Int("numhash", 2, "")
	stranded := flags.Bool("stranded", false, "")
	expectedKmers := flags.Uint64("expected-kmers", 0, "")
	maxFPR := flags.Float64("max-fpr", 0.01, "")
	targetMemory := flags.Uint64("target-memory", 0, "")
	dbgBits := flags.Uint64("dbg-bits", 1<<30, "")
	cbfSize := flags.Uint64("cbf-size", 1<<30, "")
	pkbfBits := flags.Uint64("pkbf-bits", 0, "")
	rpkbfBits := flags.Uint64("rpkbf-bits", 0, "")
	dFrag := flags.Int("d-frag", 0, "")
	dRead := flags.Int("d-read", 0, "")
	workers := flags.Int("workers", 0, "")
	batchSize := flags.Int("batch-size", 0, "")
	minQual := flags.Int("min-qual", 0, "")
	addIfPresent := flags.Bool("add-if-present", false, "")
	output := flags.String("o", "", "")
	timed := flags.Bool("timed", false, "")
	logDir := flags.String("log-dir", "", "")

	parseFlags(&flags, 2, buildHelp)

	if *logDir != "" {
		setLogOutput(*logDir)
	}

	if !checkCreate("-o", *output) {
		os.Exit(1)
	}
	logResolvedOutput("Writing snapshot to", *output)

	inputs := flags.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "No input files given.")
		fmt.Fprint(os.Stderr, buildHelp)
		os.Exit(1)
	}
	for _, in := range inputs {
		if !checkExist("", in) {
			os.Exit(1)
		}
	}

	fam, err := hash.NewFamily(*k, *numHash, *stranded)
	if err != nil {
		log.Panic(err)
	}

	dbgBitsResolved := resolveDBGBits(*targetMemory, *expectedKmers, *maxFPR, *dbgBits)
	dbg, err := bloom.NewPlainFilter(dbgBitsResolved, *numHash)
	if err != nil {
		log.Panic(err)
	}
	cbf, err := bloom.NewCountingFilter(*cbfSize, *numHash)
	if err != nil {
		log.Panic(err)
	}
	var pkbf, rpkbf *bloom.PairedKeysFilter
	if *pkbfBits > 0 {
		pkbf, err = bloom.NewPairedKeysFilter(*pkbfBits, *numHash)
		if err != nil {
			log.Panic(err)
		}
	}
	if *rpkbfBits > 0 {
		rpkbf, err = bloom.NewPairedKeysFilter(*rpkbfBits, *numHash)
		if err != nil {
			log.Panic(err)
		}
	}

	g, err := graph.New(fam, dbg, cbf, pkbf, rpkbf, graph.Config{DRead: *dRead, DFrag: *dFrag})
	if err != nil {
		log.Panic(err)
	}
	defer func() {
		if err := g.Close(); err != nil {
			log.Println("Error closing graph:", err)
		}
	}()

	sources, closers := openSources(inputs)
	defer closeAll(closers)

	mode := populate.Add
	if *addIfPresent {
		mode = populate.AddIfPresent
	}
	cfg := populate.Config{
		Workers:    *workers,
		BatchSize:  *batchSize,
		MinQuality: byte(*minQual),
		Mode:       mode,
	}

	var stats populate.Stats
	timedRun(*timed, "Populating graph from "+fmt.Sprint(len(sources))+" source(s)", func() {
		stats, err = populate.Run(context.Background(), g, sources, cfg)
	})
	if err != nil {
		log.Println("Population pipeline reported an error:", err)
	}
	log.Printf("run=%s sources=%d/%d records=%d kmers=%d fragPairs=%d readPairs=%d\n",
		stats.RunID, stats.SourcesProcessed, stats.SourcesProcessed+stats.SourcesFailed,
		stats.RecordsProcessed, stats.KmersInserted, stats.FragPairsInserted, stats.ReadPairsInserted)

	health := dbg.Health()
	log.Printf("membership filter health: popcount=%d n=%d estimatedFPR=%.6f\n", health.PopCount, health.N, health.EstimatedFPR)

	outFile, err := os.Create(*output)
	if err != nil {
		log.Panic(err)
	}
	defer internal.CloseOrPanic(outFile)

	params := bloom.SnapshotParams{
		Version:  1,
		K:        uint32(*k),
		Stranded: *stranded,
		DRead:    uint32(*dRead),
		DFrag:    uint32(*dFrag),
	}
	if err := bloom.WriteSnapshot(outFile, params, dbg, cbf, pkbf, rpkbf); err != nil {
		log.Panic(err)
	}
}

// resolveDBGBits picks the membership filter size, preferring an explicit
// memory budget, then an expected-cardinality/target-FPR estimate, falling
// back to the raw bit count only when neither sizing input was given.
func resolveDBGBits(targetMemory, expectedKmers uint64, maxFPR float64, rawBits uint64) uint64 {
	if targetMemory > 0 {
		return bloom.BitsForMemory(targetMemory)
	}
	if expectedKmers > 0 {
		if m := bloom.OptimalBits(expectedKmers, maxFPR); m > 0 {
			return m
		}
	}
	return rawBits
}

// openSources opens one seqio source per file named or discovered under
// inputs, dispatching on extension: ".rbs" files are read with the
// bit-packed codec, everything else with the line-oriented FASTA/FASTQ
// codec. Callers must closeAll(closers) once done with the sources.
func openSources(inputs []string) ([]populate.Source, []*os.File) {
	var sources []populate.Source
	var closers []*os.File
	for _, in := range inputs {
		names, err := internal.Directory(in)
		if err != nil {
			log.Panic(err)
		}
		dir := in
		if fi, err := os.Stat(in); err == nil && !fi.IsDir() {
			dir = filepath.Dir(in)
		}
		for _, name := range names {
			path := filepath.Join(dir, name)
			f, err := os.Open(path)
			if err != nil {
				log.Panic(err)
			}
			closers = append(closers, f)
			if strings.HasSuffix(name, ".rbs") {
				sources = append(sources, seqio.NewBitPackedSource(f))
			} else {
				sources = append(sources, seqio.NewLineSource(f))
			}
		}
	}
	return sources, closers
}

func closeAll(files []*os.File) {
	for _, f := range files {
		internal.CloseOrPanic(f)
	}
}
