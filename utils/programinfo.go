package utils

const (
	// ProgramName is the name reported by cmd subcommands and log lines.
	ProgramName = "rnabloom"

	// ProgramVersion is the version of the rnabloom binary.
	ProgramVersion = "0.1.0"

	// ProgramURL is the repository for the rnabloom source code.
	ProgramURL = "https://github.com/kmnip/rnabloom"
)
