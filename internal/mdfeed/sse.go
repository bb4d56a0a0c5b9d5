// Package mdfeed adapts one external HTTP/SSE top-of-book stream into
// TopOfBookCommand publications (spec §6's SSE adapter collaborator).
package mdfeed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/burgrp-go/seqbus/internal/bus"
	"github.com/burgrp-go/seqbus/internal/wire"
)

const reconnectBackoff = 1 * time.Second

// quote is the JSON object the external feed's "data:" lines carry.
type quote struct {
	Symbol    string  `json:"symbol"`
	BidPrice  float64 `json:"bid_price"`
	AskPrice  float64 `json:"ask_price"`
	BidSize   uint64  `json:"bid_size"`
	AskSize   uint64  `json:"ask_size"`
	Timestamp uint64  `json:"timestamp"`
}

// Feed connects over TCP to host:port, issues a raw SSE GET against path,
// and republishes each decoded quote as a TopOfBookCommand addressed to
// targetID, via publisher.
type Feed struct {
	host, port, path string
	targetID         uint32
	publisher        *bus.Publisher

	stop chan struct{}
	done chan struct{}
}

// NewFeed constructs a feed adapter. Run must be called to start consuming.
func NewFeed(host, port, path string, targetID uint32, publisher *bus.Publisher) *Feed {
	return &Feed{
		host: host, port: port, path: path,
		targetID:  targetID,
		publisher: publisher,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Run connects and reconnects until Stop is called. Connection drops
// trigger a 1-second backoff and reconnect, per spec §6.
func (f *Feed) Run() {
	defer close(f.done)
	for {
		select {
		case <-f.stop:
			return
		default:
		}

		if err := f.runOnce(); err != nil {
			log.Printf("mdfeed: connection error: %v", err)
		}

		select {
		case <-f.stop:
			return
		case <-time.After(reconnectBackoff):
		}
	}
}

// Stop signals Run to exit and waits for it to return.
func (f *Feed) Stop() {
	close(f.stop)
	<-f.done
}

func (f *Feed) runOnce() error {
	addr := net.JoinHostPort(f.host, f.port)
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("mdfeed: dial %s: %w", addr, err)
	}
	defer conn.Close()

	request := fmt.Sprintf("GET %s HTTP/1.1\r\nHost: %s\r\nAccept: text/event-stream\r\nConnection: close\r\n\r\n", f.path, f.host)
	if _, err := conn.Write([]byte(request)); err != nil {
		return fmt.Errorf("mdfeed: write request: %w", err)
	}

	reader := bufio.NewReader(conn)

	statusLine, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("mdfeed: read status line: %w", err)
	}
	if !strings.Contains(statusLine, "200") {
		return fmt.Errorf("mdfeed: unexpected status line %q", strings.TrimSpace(statusLine))
	}

	if err := discardHeaders(reader); err != nil {
		return err
	}

	for {
		select {
		case <-f.stop:
			return nil
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("mdfeed: stream closed: %w", err)
		}

		f.handleLine(line)
	}
}

func discardHeaders(reader *bufio.Reader) error {
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("mdfeed: read headers: %w", err)
		}
		if strings.TrimRight(line, "\r\n") == "" {
			return nil
		}
	}
}

func (f *Feed) handleLine(line string) {
	trimmed := strings.TrimRight(line, "\r\n")
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "data:") {
		return
	}

	payload := strings.TrimSpace(trimmed[len("data:"):])
	if payload == "" {
		return
	}

	var q quote
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		log.Printf("mdfeed: drop unparseable quote: %v", err)
		return
	}

	cmd := wire.TopOfBookCommand{
		Symbol:       q.Symbol,
		BidPrice:     q.BidPrice,
		BidSize:      q.BidSize,
		AskPrice:     q.AskPrice,
		AskSize:      q.AskSize,
		ExchangeTime: q.Timestamp,
	}

	if err := f.publisher.PublishTopOfBook(f.targetID, cmd); err != nil {
		log.Printf("mdfeed: publish failed: %v", err)
	}
}
