package internal

import (
	"io"
	"log"
)

// CloseOrPanic closes c and panics on error, for deferred closes of files
// this process itself just opened for writing, where a failed close means
// lost output rather than a recoverable per-item outcome.
func CloseOrPanic(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Panic(err)
	}
}
