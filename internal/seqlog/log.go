// Package seqlog provides one prefixed *log.Logger per subsystem, in the
// teacher's own idiom (bare log.Printf/fmt.Println, no external logging
// framework) rather than introducing a structured-logging dependency the
// pack's teacher repo itself never reaches for.
package seqlog

import (
	"log"
	"os"
)

// New returns a logger prefixed with name, writing to stderr with no
// timestamp (the process supervisor is assumed to add one, mirroring how
// long-running participants in this bus are expected to run under a
// supervisor that timestamps stdout/stderr).
func New(name string) *log.Logger {
	return log.New(os.Stderr, "["+name+"] ", 0)
}
