package bus

import "github.com/burgrp-go/seqbus/internal/wire"

// MakeTextEvent is the pure make_event function for the text pipeline: the
// command's own fields are preserved verbatim, and only seq/timestamp/
// sender are sequencer-authoritative (spec §3's invariant on field
// ownership).
func MakeTextEvent(cmd wire.TextCommand, seq uint64, senderID uint32, ts int64) wire.TextEvent {
	return wire.TextEvent{
		EventCommon: wire.EventCommon{
			TargetInstanceID: cmd.TargetInstanceID,
			SenderInstanceID: senderID,
			Seq:              seq,
			Timestamp:        ts,
		},
		Text: cmd.Text,
	}
}

// MakeTopOfBookEvent is the pure make_event function for the market-data
// pipeline.
func MakeTopOfBookEvent(cmd wire.TopOfBookCommand, seq uint64, senderID uint32, ts int64) wire.TopOfBookEvent {
	return wire.TopOfBookEvent{
		EventCommon: wire.EventCommon{
			TargetInstanceID: cmd.TargetInstanceID,
			SenderInstanceID: senderID,
			Seq:              seq,
			Timestamp:        ts,
		},
		Symbol:       cmd.Symbol,
		BidPrice:     cmd.BidPrice,
		BidSize:      cmd.BidSize,
		AskPrice:     cmd.AskPrice,
		AskSize:      cmd.AskSize,
		ExchangeTime: cmd.ExchangeTime,
	}
}

// RegisterDefaultPipelines wires the two closed-set pipelines the wire
// registry in §6 defines (1→2, 3→4) onto a sequencer.
func RegisterDefaultPipelines(s *Sequencer) {
	RegisterPipeline(s, wire.TagTextCommand, wire.DecodeTextCommand, MakeTextEvent, func(e wire.TextEvent) []byte { return e.Encode() })
	RegisterPipeline(s, wire.TagTopOfBookCommand, wire.DecodeTopOfBookCommand, MakeTopOfBookEvent, func(e wire.TopOfBookEvent) []byte { return e.Encode() })
}
