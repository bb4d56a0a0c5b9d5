package scrappy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/burgrp-go/seqbus/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestWriteTextAppendsPipeDelimitedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	sink, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, sink.WriteText(wire.TextEvent{
		EventCommon: wire.EventCommon{SenderInstanceID: 18, TargetInstanceID: 81, Seq: 1, Timestamp: 42},
		Text:        "PING",
	}))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "#=1|SID=18|TIN=81|TEXT=PING\n", string(data))
}

func TestWriteTopOfBookAppendsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	sink, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, sink.WriteTopOfBook(wire.TopOfBookEvent{
		EventCommon: wire.EventCommon{SenderInstanceID: 1, TargetInstanceID: 40, Seq: 2, Timestamp: 99},
		Symbol:      "AAPL", BidPrice: 150.25, BidSize: 100, AskPrice: 150.30, AskSize: 200, ExchangeTime: 55,
	}))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "#=2|SID=1|TIN=40|SYMBOL=AAPL|BID=150.25|BIDSZ=100|ASK=150.3|ASKSZ=200|XTIME=55\n", string(data))
}

func TestAppendsAcrossMultipleOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")

	sink1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, sink1.WriteText(wire.TextEvent{EventCommon: wire.EventCommon{Seq: 1}, Text: "A"}))
	require.NoError(t, sink1.Close())

	sink2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, sink2.WriteText(wire.TextEvent{EventCommon: wire.EventCommon{Seq: 2}, Text: "B"}))
	require.NoError(t, sink2.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "#=1|SID=0|TIN=0|TEXT=A\n#=2|SID=0|TIN=0|TEXT=B\n", string(data))
}
