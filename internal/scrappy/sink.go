// Package scrappy appends the bus's event stream to a file, one
// pipe-delimited line per event, flushing immediately (spec §6's file
// sink collaborator).
package scrappy

import (
	"fmt"
	"os"

	"github.com/burgrp-go/seqbus/internal/wire"
)

// Sink owns the output file and formats each event type's line.
type Sink struct {
	file *os.File
}

// Open appends to (creating if necessary) the file at path.
func Open(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("scrappy: open %s: %w", path, err)
	}
	return &Sink{file: f}, nil
}

// Close releases the underlying file.
func (s *Sink) Close() error {
	return s.file.Close()
}

// WriteText appends one line for a TextEvent:
// #=<seq>|SID=<sid>|TIN=<tin>|TEXT=<text>
func (s *Sink) WriteText(e wire.TextEvent) error {
	line := fmt.Sprintf("#=%d|SID=%d|TIN=%d|TEXT=%s\n", e.Seq, e.SenderInstanceID, e.TargetInstanceID, e.Text)
	return s.writeAndSync(line)
}

// WriteTopOfBook appends one line for a TopOfBookEvent, extending the
// text-event line shape with the top-of-book payload fields.
func (s *Sink) WriteTopOfBook(e wire.TopOfBookEvent) error {
	line := fmt.Sprintf(
		"#=%d|SID=%d|TIN=%d|SYMBOL=%s|BID=%g|BIDSZ=%d|ASK=%g|ASKSZ=%d|XTIME=%d\n",
		e.Seq, e.SenderInstanceID, e.TargetInstanceID,
		e.Symbol, e.BidPrice, e.BidSize, e.AskPrice, e.AskSize, e.ExchangeTime,
	)
	return s.writeAndSync(line)
}

func (s *Sink) writeAndSync(line string) error {
	if _, err := s.file.WriteString(line); err != nil {
		return fmt.Errorf("scrappy: write: %w", err)
	}
	return s.file.Sync()
}
