// rnabloom assembles transcripts from short sequencing reads without a
// reference genome, using a probabilistic de Bruijn graph built from Bloom
// filters instead of an explicit graph structure.
//
// Please see https://github.com/kmnip/rnabloom for a description of the
// tool and its subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/kmnip/rnabloom/cmd"
)

func printHelp() {
	fmt.Fprintln(os.Stderr, "Available commands: build, assemble, subsample")
	fmt.Fprint(os.Stderr, "\n", cmd.ProgramMessage)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, cmd.HelpMessage)
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		cmd.Build()
	case "assemble":
		cmd.Assemble()
	case "subsample":
		cmd.Subsample()
	case "help", "-help", "--help", "-h", "--h":
		printHelp()
	default:
		fmt.Fprintln(os.Stderr, "Unknown command:", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}
