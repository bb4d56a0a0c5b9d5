package wire

import (
	"fmt"
	"math"
)

func float64FromBits(bits uint64) float64 {
	return math.Float64frombits(bits)
}

// EventCommon is present on every event: the wire tag, the target the
// command named, the originating instance, and the two fields only the
// sequencer may write.
type EventCommon struct {
	TargetInstanceID uint32
	SenderInstanceID uint32
	Seq              uint64
	Timestamp        int64 // microseconds since epoch
}

// TargetID returns the recipient named in the promoted command.
func (e EventCommon) TargetID() uint32 { return e.TargetInstanceID }

// SenderID returns the originating participant's instance id.
func (e EventCommon) SenderID() uint32 { return e.SenderInstanceID }

// GetSeq returns the sequencer-assigned global sequence number.
func (e EventCommon) GetSeq() uint64 { return e.Seq }

// GetTimestamp returns the sequencer-assigned capture time, microseconds
// since epoch.
func (e EventCommon) GetTimestamp() int64 { return e.Timestamp }

// TextEvent is the promoted, ordered form of TextCommand.
type TextEvent struct {
	EventCommon
	Text string
}

func (e TextEvent) Tag() Tag { return TagTextEvent }

func (e TextEvent) Encode() []byte {
	buf := make([]byte, 0, 48+len(e.Text))
	buf = writeVarintField(buf, 1, uint64(TagTextEvent))
	buf = writeVarintField(buf, 2, uint64(e.TargetInstanceID))
	buf = writeVarintField(buf, 3, uint64(e.SenderInstanceID))
	buf = writeVarintField(buf, 4, e.Seq)
	buf = writeVarintField(buf, 5, uint64(e.Timestamp))
	buf = writeStringField(buf, 6, e.Text)
	return buf
}

func DecodeTextEvent(data []byte) (TextEvent, error) {
	var e TextEvent
	rest := data
	sawTag := false
	for len(rest) > 0 {
		f, r, ok := nextField(rest)
		if !ok {
			return TextEvent{}, fmt.Errorf("wire: malformed TextEvent")
		}
		rest = r
		switch f.num {
		case 1:
			if Tag(f.varint) != TagTextEvent {
				return TextEvent{}, fmt.Errorf("wire: tag mismatch, want TextEvent got %d", f.varint)
			}
			sawTag = true
		case 2:
			e.TargetInstanceID = uint32(f.varint)
		case 3:
			e.SenderInstanceID = uint32(f.varint)
		case 4:
			e.Seq = f.varint
		case 5:
			e.Timestamp = int64(f.varint)
		case 6:
			e.Text = string(f.bytes)
		}
	}
	if !sawTag {
		return TextEvent{}, fmt.Errorf("wire: missing message_type field")
	}
	return e, nil
}

// TopOfBookEvent is the promoted, ordered form of TopOfBookCommand.
type TopOfBookEvent struct {
	EventCommon
	Symbol       string
	BidPrice     float64
	BidSize      uint64
	AskPrice     float64
	AskSize      uint64
	ExchangeTime uint64
}

func (e TopOfBookEvent) Tag() Tag { return TagTopOfBookEvent }

func (e TopOfBookEvent) Encode() []byte {
	buf := make([]byte, 0, 80+len(e.Symbol))
	buf = writeVarintField(buf, 1, uint64(TagTopOfBookEvent))
	buf = writeVarintField(buf, 2, uint64(e.TargetInstanceID))
	buf = writeVarintField(buf, 3, uint64(e.SenderInstanceID))
	buf = writeVarintField(buf, 4, e.Seq)
	buf = writeVarintField(buf, 5, uint64(e.Timestamp))
	buf = writeStringField(buf, 6, e.Symbol)
	buf = writeDoubleField(buf, 7, e.BidPrice)
	buf = writeVarintField(buf, 8, e.BidSize)
	buf = writeDoubleField(buf, 9, e.AskPrice)
	buf = writeVarintField(buf, 10, e.AskSize)
	buf = writeVarintField(buf, 11, e.ExchangeTime)
	return buf
}

func DecodeTopOfBookEvent(data []byte) (TopOfBookEvent, error) {
	var e TopOfBookEvent
	rest := data
	sawTag := false
	for len(rest) > 0 {
		f, r, ok := nextField(rest)
		if !ok {
			return TopOfBookEvent{}, fmt.Errorf("wire: malformed TopOfBookEvent")
		}
		rest = r
		switch f.num {
		case 1:
			if Tag(f.varint) != TagTopOfBookEvent {
				return TopOfBookEvent{}, fmt.Errorf("wire: tag mismatch, want TopOfBookEvent got %d", f.varint)
			}
			sawTag = true
		case 2:
			e.TargetInstanceID = uint32(f.varint)
		case 3:
			e.SenderInstanceID = uint32(f.varint)
		case 4:
			e.Seq = f.varint
		case 5:
			e.Timestamp = int64(f.varint)
		case 6:
			e.Symbol = string(f.bytes)
		case 7:
			e.BidPrice = float64FromBits(f.fixed64)
		case 8:
			e.BidSize = f.varint
		case 9:
			e.AskPrice = float64FromBits(f.fixed64)
		case 10:
			e.AskSize = f.varint
		case 11:
			e.ExchangeTime = f.varint
		}
	}
	if !sawTag {
		return TopOfBookEvent{}, fmt.Errorf("wire: missing message_type field")
	}
	return e, nil
}
