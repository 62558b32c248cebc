package cmd

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/kmnip/rnabloom/assemble"
	"github.com/kmnip/rnabloom/bloom"
	"github.com/kmnip/rnabloom/graph"
	"github.com/kmnip/rnabloom/hash"
	"github.com/kmnip/rnabloom/internal"
	"github.com/kmnip/rnabloom/seqio"
	"github.com/kmnip/rnabloom/stats"
)

const assembleHelp = `rnabloom assemble: traverse a populated graph from a set of seed reads.

Usage: rnabloom assemble -graph <snapshot> -o <output.fa> [options] <seeds.fa|seeds.fq> ...

Options:
  -graph string             graph snapshot written by "build" (required)
  -o string                 output FASTA path (required)
  -stats string             fragment-length side-file path (optional)
  -max-tip-length int       branches shorter than this many k-mers are pruned (default 3)
  -lookahead int            k-mers scored ahead on ambiguous branches (default 5)
  -max-cov-gradient float   minimum successor/tip coverage ratio (default 0.3)
  -max-indel-size int       reroute and alignment tolerance in bases (default 3)
  -percent-identity float   representation and artifact identity threshold (default 0.9)
  -min-kmer-pairs int       minimum RPKBF-consistent segment to validate a bridge (default 2)
  -min-overlap int          minimum suffix/prefix overlap before bridging (default 10)
  -bound int                cap on bridge extension length (default 500)
  -max-err-corr int         maximum error-correction passes per read (default 3)
  -min-kmer-cov int         coverage below which a k-mer run is a dip (default 2)
  -reset-screen-per-stratum reset the representation filter at the start of each input file
  -uracil                   rewrite T to U on emission (RNA mode)
  -screen-bits uint         representation-screening filter size in bits (default 1<<28)
  -sample-size int          fragment-length reservoir sample capacity (default 10000)
  -mate2 string             comma-separated second-mate files, one per positional input, for
                            paired-end bridging (default: single-end)
  -timed                    log elapsed time for the assembly phase
  -log-dir string           write a mirrored log file under this directory
` + HelpMessage

// Assemble implements the "assemble" subcommand: traverses the graph from
// each input record as a seed, running it through the full candidate state
// machine, and writes surviving transcripts as FASTA.
func Assemble() {
	var flags flag.FlagSet
	graphPath := flags.String("graph", "", "")
	output := flags.String("o", "", "")
	statsPath := flags.String("stats", "", "")
	maxTipLength := flags.Int("max-tip-length", 3, "")
	lookahead := flags.Int("lookahead", 5, "")
	maxCovGradient := flags.Float64("max-cov-gradient", 0.3, "")
	maxIndelSize := flags.Int("max-indel-size", 3, "")
	percentIdentity := flags.Float64("percent-identity", 0.9, "")
	minKmerPairs := flags.Int("min-kmer-pairs", 2, "")
	minOverlap := flags.Int("min-overlap", 10, "")
	bound := flags.Int("bound", 500, "")
	maxErrCorr := flags.Int("max-err-corr", 3, "")
	minKmerCov := flags.Int("min-kmer-cov", 2, "")
	resetPerStratum := flags.Bool("reset-screen-per-stratum", false, "")
	uracil := flags.Bool("uracil", false, "")
	screenBits := flags.Uint64("screen-bits", 1<<28, "")
	sampleSize := flags.Int("sample-size", 10000, "")
	mate2 := flags.String("mate2", "", "")
	timed := flags.Bool("timed", false, "")
	logDir := flags.String("log-dir", "", "")

	parseFlags(&flags, 2, assembleHelp)

	if *logDir != "" {
		setLogOutput(*logDir)
	}
	if !checkExist("-graph", *graphPath) {
		os.Exit(1)
	}
	if !checkCreate("-o", *output) {
		os.Exit(1)
	}
	logResolvedOutput("Writing assembled transcripts to", *output)
	inputs := flags.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "No seed input files given.")
		fmt.Fprint(os.Stderr, assembleHelp)
		os.Exit(1)
	}
	for _, in := range inputs {
		if !checkExist("", in) {
			os.Exit(1)
		}
	}

	var mate2Files []string
	if *mate2 != "" {
		mate2Files = strings.Split(*mate2, ",")
		if len(mate2Files) != len(inputs) {
			fmt.Fprintln(os.Stderr, "-mate2 must name exactly one file per positional input.")
			os.Exit(1)
		}
		for _, in := range mate2Files {
			if !checkExist("-mate2", in) {
				os.Exit(1)
			}
		}
	}

	snapFile, err := os.Open(*graphPath)
	if err != nil {
		log.Panic(err)
	}
	defer internal.CloseOrPanic(snapFile)
	snap, err := bloom.ReadSnapshot(snapFile)
	if err != nil {
		log.Panic(err)
	}

	fam, err := hash.NewFamily(int(snap.Params.K), snap.DBG.M(), snap.Params.Stranded)
	if err != nil {
		log.Panic(err)
	}
	g, err := graph.New(fam, snap.DBG, snap.CBF, snap.PKBF, snap.RPKBF,
		graph.Config{DRead: int(snap.Params.DRead), DFrag: int(snap.Params.DFrag)})
	if err != nil {
		log.Panic(err)
	}
	defer func() {
		if err := g.Close(); err != nil {
			log.Println("Error closing graph:", err)
		}
	}()

	screen, err := bloom.NewPlainFilter(*screenBits, fam.NumHash)
	if err != nil {
		log.Panic(err)
	}

	mode := assemble.BaseModeDNA
	if *uracil {
		mode = assemble.BaseModeRNA
	}
	cfg := assemble.Config{
		MaxTipLength:             *maxTipLength,
		Lookahead:                *lookahead,
		MaxCovGradient:           *maxCovGradient,
		MaxIndelSize:             *maxIndelSize,
		PercentIdentity:          *percentIdentity,
		MinNumKmerPairs:          *minKmerPairs,
		MinOverlap:               *minOverlap,
		Bound:                    *bound,
		MaxErrCorrIterations:     *maxErrCorr,
		MinKmerCov:               uint8(*minKmerCov),
		ResetScreeningPerStratum: *resetPerStratum,
		Mode:                     mode,
	}

	outFile, err := os.Create(*output)
	if err != nil {
		log.Panic(err)
	}
	defer internal.CloseOrPanic(outFile)

	sampler := stats.NewSampler(*sampleSize)
	var runStats assemble.Stats

	timedRun(*timed, "Assembling from "+fmt.Sprint(len(inputs))+" seed file(s)", func() {
		for i, in := range inputs {
			f, err := os.Open(in)
			if err != nil {
				log.Panic(err)
			}
			if mate2Files == nil {
				assembleOne(g, fam, cfg, seqio.NewLineSource(f), screen, outFile, sampler, &runStats)
				internal.CloseOrPanic(f)
			} else {
				f2, err := os.Open(mate2Files[i])
				if err != nil {
					log.Panic(err)
				}
				assemblePaired(g, fam, cfg, seqio.NewLineSource(f), seqio.NewLineSource(f2), screen, outFile, sampler, &runStats)
				internal.CloseOrPanic(f)
				internal.CloseOrPanic(f2)
			}
			assemble.ResetScreening(screen, cfg)
		}
	})
	sampler.Close()

	log.Printf("emitted=%d rejected=%d (tipOnly=%d chimeric=%d artifact=%d represented=%d lowCoverage=%d)\n",
		runStats.Emitted, runStats.Rejected(), runStats.RejectedTipOnly, runStats.RejectedChimeric,
		runStats.RejectedArtifact, runStats.RejectedRepresented, runStats.RejectedLowCoverage)

	if *statsPath != "" {
		sideFile, err := os.Create(*statsPath)
		if err != nil {
			log.Panic(err)
		}
		defer internal.CloseOrPanic(sideFile)
		if err := stats.WriteSideFile(sideFile, sampler.Stats()); err != nil {
			log.Panic(err)
		}
	}
}

// assembleOne drains src, running every record through the candidate state
// machine and writing surviving transcripts to out.
func assembleOne(g *graph.Graph, fam *hash.Family, cfg assemble.Config, src *seqio.LineSource,
	screen *bloom.PlainFilter, out *os.File, sampler *stats.Sampler, runStats *assemble.Stats) {
	for {
		seq, _, ok := src.Next()
		if !ok {
			break
		}
		if len(seq) < fam.K {
			continue
		}
		c, err := assemble.ExtendBothDirections(g, cfg, assemble.NewSeed(seq))
		if err != nil || c.State.Rejected() {
			runStats.Record(c)
			continue
		}

		c, err = assemble.CorrectErrors(g, cfg, c)
		if err != nil {
			runStats.Record(c)
			continue
		}

		if rejected, isArtifact := assemble.DetectArtifact(cfg, c); isArtifact {
			runStats.Record(rejected)
			continue
		}
		if assemble.DetectChimera(g, cfg, c) {
			c.State = assemble.StateRejectedChimeric
			runStats.Record(c)
			continue
		}

		c.Seq, c.PAS = assemble.DetectPolyA(g, c.Seq)

		c = assemble.ScreenAndEmit(screen, fam, cfg, c)
		runStats.Record(c)
		if c.State != assemble.StateEmitted {
			continue
		}

		cov := medianCoverage(g, fam, c.Seq)
		emitted := c
		emitted.Seq = assemble.ApplyBaseMode(c.Seq, cfg.Mode)
		if err := writeFasta(out, "transcript_", emitted, cov); err != nil {
			log.Panic(err)
		}
		sampler.Observe(len(c.Seq))
	}
	if err := src.Err(); err != nil {
		log.Println("Error reading seed source:", err)
	}
}

// assemblePaired drains left and right in lockstep, treating each pair of
// records as mates of one fragment: both mates are extended and corrected
// independently, then reconciled into a single sequence by assemble.Bridge
// before the shared artifact/chimera/poly-A/screening chain.
func assemblePaired(g *graph.Graph, fam *hash.Family, cfg assemble.Config, left, right *seqio.LineSource,
	screen *bloom.PlainFilter, out *os.File, sampler *stats.Sampler, runStats *assemble.Stats) {
	for {
		leftSeq, _, leftOK := left.Next()
		rightSeq, _, rightOK := right.Next()
		if !leftOK || !rightOK {
			break
		}
		if len(leftSeq) < fam.K || len(rightSeq) < fam.K {
			continue
		}

		leftCand, err := assemble.ExtendBothDirections(g, cfg, assemble.NewSeed(leftSeq))
		if err != nil || leftCand.State.Rejected() {
			runStats.Record(leftCand)
			continue
		}
		rightCand, err := assemble.ExtendBothDirections(g, cfg, assemble.NewSeed(rightSeq))
		if err != nil || rightCand.State.Rejected() {
			runStats.Record(rightCand)
			continue
		}

		correctedLeft, correctedRight, ok := assemble.CorrectPairedReads(g, cfg, leftCand, rightCand)
		if !ok {
			correctedLeft, correctedRight = leftCand, rightCand
		}

		c, err := assemble.Bridge(g, cfg, correctedLeft, correctedRight)
		if err != nil {
			runStats.Record(c)
			continue
		}

		if rejected, isArtifact := assemble.DetectArtifact(cfg, c); isArtifact {
			runStats.Record(rejected)
			continue
		}
		if assemble.DetectChimera(g, cfg, c) {
			c.State = assemble.StateRejectedChimeric
			runStats.Record(c)
			continue
		}

		c.Seq, c.PAS = assemble.DetectPolyA(g, c.Seq)

		c = assemble.ScreenAndEmit(screen, fam, cfg, c)
		runStats.Record(c)
		if c.State != assemble.StateEmitted {
			continue
		}

		cov := medianCoverage(g, fam, c.Seq)
		emitted := c
		emitted.Seq = assemble.ApplyBaseMode(c.Seq, cfg.Mode)
		if err := writeFasta(out, "fragment_", emitted, cov); err != nil {
			log.Panic(err)
		}
		sampler.Observe(len(c.Seq))
	}
	if err := left.Err(); err != nil {
		log.Println("Error reading left mate source:", err)
	}
	if err := right.Err(); err != nil {
		log.Println("Error reading right mate source:", err)
	}
}
