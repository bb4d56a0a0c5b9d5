package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeekTag(t *testing.T) {
	cmd := TextCommand{CommandCommon: CommandCommon{TargetInstanceID: 81, SenderInstanceID: 18}, Text: "PING"}
	data := cmd.Encode()

	require.Equal(t, byte(0x08), data[0], "message_type is always field 1")
	tag, ok := PeekTag(data)
	require.True(t, ok)
	require.Equal(t, TagTextCommand, tag)
}

func TestTextCommandRoundTrip(t *testing.T) {
	cmd := TextCommand{CommandCommon: CommandCommon{TargetInstanceID: 81, SenderInstanceID: 18}, Text: "PING"}
	decoded, err := DecodeTextCommand(cmd.Encode())
	require.NoError(t, err)
	require.Equal(t, cmd, decoded)
}

func TestTopOfBookCommandRoundTrip(t *testing.T) {
	cmd := TopOfBookCommand{
		CommandCommon: CommandCommon{TargetInstanceID: 7, SenderInstanceID: 9},
		Symbol:        "AAPL",
		BidPrice:      150.25,
		BidSize:       100,
		AskPrice:      150.30,
		AskSize:       200,
		ExchangeTime:  1690000000000,
	}
	decoded, err := DecodeTopOfBookCommand(cmd.Encode())
	require.NoError(t, err)
	require.Equal(t, cmd, decoded)
}

func TestTextEventRoundTrip(t *testing.T) {
	evt := TextEvent{
		EventCommon: EventCommon{TargetInstanceID: 81, SenderInstanceID: 18, Seq: 1, Timestamp: 1234567},
		Text:        "PING",
	}
	decoded, err := DecodeTextEvent(evt.Encode())
	require.NoError(t, err)
	require.Equal(t, evt, decoded)

	tag, ok := PeekTag(evt.Encode())
	require.True(t, ok)
	require.Equal(t, TagTextEvent, tag)
}

func TestTopOfBookEventRoundTrip(t *testing.T) {
	evt := TopOfBookEvent{
		EventCommon:  EventCommon{TargetInstanceID: 7, SenderInstanceID: 9, Seq: 2, Timestamp: 42},
		Symbol:       "AAPL",
		BidPrice:     150.25,
		BidSize:      100,
		AskPrice:     150.30,
		AskSize:      200,
		ExchangeTime: 1690000000000,
	}
	decoded, err := DecodeTopOfBookEvent(evt.Encode())
	require.NoError(t, err)
	require.Equal(t, evt, decoded)
}

func TestDecodeRejectsWrongTag(t *testing.T) {
	cmd := TextCommand{Text: "x"}
	_, err := DecodeTopOfBookCommand(cmd.Encode())
	require.Error(t, err)
}

func TestPromotedEventTag(t *testing.T) {
	tag, ok := PromotedEventTag(TagTextCommand)
	require.True(t, ok)
	require.Equal(t, TagTextEvent, tag)

	tag, ok = PromotedEventTag(TagTopOfBookCommand)
	require.True(t, ok)
	require.Equal(t, TagTopOfBookEvent, tag)

	_, ok = PromotedEventTag(TagTextEvent)
	require.False(t, ok)
}
