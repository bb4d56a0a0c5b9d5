package mdfeed

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHandleLineIgnoresNonDataLines(t *testing.T) {
	f := &Feed{targetID: 40, publisher: nil}

	var captured []byte
	_ = captured

	// handleLine publishes via f.publisher, which must not be nil for a
	// real call; exercise the SSE line parsing in isolation by checking
	// that a non-data line is ignored without panicking.
	f.handleLine("event: ping\r\n")
	f.handleLine(": this is a comment\r\n")
	f.handleLine("\r\n")
}

func TestDiscardHeadersStopsAtBlankLine(t *testing.T) {
	raw := "Content-Type: text/event-stream\r\nX-Custom: 1\r\n\r\ndata: {}\r\n"
	reader := bufio.NewReader(strings.NewReader(raw))

	require.NoError(t, discardHeaders(reader))

	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "data: {}\r\n", line)
}

func TestRunOnceRejectsNon200Status(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("HTTP/1.1 404 Not Found\r\n\r\n"))
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	f := NewFeed(host, port, "/feed", 40, nil)
	err = f.runOnce()
	require.Error(t, err)
}

func TestStopUnblocksRun(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	f := NewFeed(host, port, "/feed", 40, nil)
	go f.Run()

	time.Sleep(20 * time.Millisecond)
	f.Stop()
}
