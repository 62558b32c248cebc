package cmd

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kmnip/rnabloom/bloom"
	"github.com/kmnip/rnabloom/hash"
	"github.com/kmnip/rnabloom/internal"
	"github.com/kmnip/rnabloom/seqio"
	"github.com/kmnip/rnabloom/subsample"
)

const subsampleHelp = `rnabloom subsample: redundancy-filter a set of assembled transcripts.

Usage: rnabloom subsample -o <output.fa> [options] <input.fa> ...

Options:
  -o string                  output FASTA path (required)
  -k int                     signature k-mer length (default 25)
  -numhash int                hash functions per filter (default 2)
  -strategy string           minimizer | kmerpair | strobemer (default minimizer)
  -window int                minimizer window size (default 10)
  -strobe-min int            strobemer minimum downstream span (default 1)
  -strobe-max int            strobemer maximum downstream span (default 10)
  -max-edge-clip int         k-mer positions excluded from each end (default 0)
  -max-multiplicity int      filter count still considered novel (default 0)
  -min-matching float        minimum novel-hash proportion to keep (default 0.5)
  -max-nonmatching-chain int longest tolerated run of represented hashes (default 5)
  -filter-size uint          counting filter capacity (default 1<<30)
  -timed                     log elapsed time
  -log-dir string            write a mirrored log file under this directory
` + HelpMessage

// Subsample implements the "subsample" subcommand: screens each input
// record against a shared counting filter and re-emits only those kept.
func Subsample() {
	var flags flag.FlagSet
	output := flags.String("o", "", "")
	k := flags.Int("k", 25, "")
	numHash := flags.Int("numhash", 2, "")
	strategy := flags.String("strategy", "minimizer", "")
	window := flags.Int("window", 10, "")
	strobeMin := flags.Int("strobe-min", 1, "")
	strobeMax := flags.Int("strobe-max", 10, "")
	maxEdgeClip := flags.Int("max-edge-clip", 0, "")
	maxMultiplicity := flags.Int("max-multiplicity", 0, "")
	minMatching := flags.Float64("min-matching", 0.5, "")
	maxNonMatchingChain := flags.Int("max-nonmatching-chain", 5, "")
	filterSize := flags.Uint64("filter-size", 1<<30, "")
	timed := flags.Bool("timed", false, "")
	logDir := flags.String("log-dir", "", "")

	parseFlags(&flags, 2, subsampleHelp)

	if *logDir != "" {
		setLogOutput(*logDir)
	}
	if !checkCreate("-o", *output) {
		os.Exit(1)
	}
	logResolvedOutput("Writing subsampled transcripts to", *output)
	inputs := flags.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "No input files given.")
		fmt.Fprint(os.Stderr, subsampleHelp)
		os.Exit(1)
	}
	for _, in := range inputs {
		if !checkExist("", in) {
			os.Exit(1)
		}
	}

	var strat subsample.Strategy
	switch *strategy {
	case "minimizer":
		strat = subsample.StrategyMinimizer
	case "kmerpair":
		strat = subsample.StrategyKmerPair
	case "strobemer":
		strat = subsample.StrategyStrobemer
	default:
		fmt.Fprintln(os.Stderr, "Unknown -strategy:", *strategy)
		os.Exit(1)
	}

	fam, err := hash.NewFamily(*k, *numHash, false)
	if err != nil {
		log.Panic(err)
	}
	cf, err := bloom.NewCountingFilter(*filterSize, *numHash)
	if err != nil {
		log.Panic(err)
	}
	cfg := subsample.Config{
		Strategy:                  strat,
		WindowSize:                *window,
		StrobeMinSpan:             *strobeMin,
		StrobeMaxSpan:             *strobeMax,
		MaxEdgeClip:               *maxEdgeClip,
		MaxMultiplicity:           uint8(*maxMultiplicity),
		MinMatchingProportion:     *minMatching,
		MaxNonMatchingChainLength: *maxNonMatchingChain,
	}

	outFile, err := os.Create(*output)
	if err != nil {
		log.Panic(err)
	}
	defer internal.CloseOrPanic(outFile)

	var seen, kept int64
	timedRun(*timed, "Subsampling "+fmt.Sprint(len(inputs))+" input file(s)", func() {
		for _, in := range inputs {
			f, err := os.Open(in)
			if err != nil {
				log.Panic(err)
			}
			src := seqio.NewLineSource(f)
			for {
				seq, _, ok := src.Next()
				if !ok {
					break
				}
				seen++
				if subsample.Keep(cf, fam, cfg, seq) {
					kept++
					if _, err := fmt.Fprintf(outFile, ">seq_%d\n%s\n", kept, seq); err != nil {
						log.Panic(err)
					}
				}
			}
			if err := src.Err(); err != nil {
				log.Println("Error reading input:", err)
			}
			internal.CloseOrPanic(f)
		}
	})

	log.Printf("seen=%d kept=%d\n", seen, kept)
}
