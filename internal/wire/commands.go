package wire

import "fmt"

// CommandCommon is present on every command: the wire tag, the intended
// recipient (0 = broadcast), and the producer's own instance id. The latter
// is what the sequencer imputes onto the event it emits as
// sender_instance_id (spec §4.4).
type CommandCommon struct {
	TargetInstanceID uint32
	SenderInstanceID uint32
}

// TargetID returns the command's intended recipient (0 = broadcast).
func (c CommandCommon) TargetID() uint32 { return c.TargetInstanceID }

// SenderID returns the producer's own instance id, as it placed it on the
// wire at publish time.
func (c CommandCommon) SenderID() uint32 { return c.SenderInstanceID }

// TextCommand carries a single UTF-8 string payload.
type TextCommand struct {
	CommandCommon
	Text string
}

func (c TextCommand) Tag() Tag { return TagTextCommand }

func (c TextCommand) Encode() []byte {
	buf := make([]byte, 0, 32+len(c.Text))
	buf = writeVarintField(buf, 1, uint64(TagTextCommand))
	buf = writeVarintField(buf, 2, uint64(c.TargetInstanceID))
	buf = writeVarintField(buf, 3, uint64(c.SenderInstanceID))
	buf = writeStringField(buf, 4, c.Text)
	return buf
}

func DecodeTextCommand(data []byte) (TextCommand, error) {
	var c TextCommand
	rest := data
	sawTag := false
	for len(rest) > 0 {
		f, r, ok := nextField(rest)
		if !ok {
			return TextCommand{}, fmt.Errorf("wire: malformed TextCommand")
		}
		rest = r
		switch f.num {
		case 1:
			if Tag(f.varint) != TagTextCommand {
				return TextCommand{}, fmt.Errorf("wire: tag mismatch, want TextCommand got %d", f.varint)
			}
			sawTag = true
		case 2:
			c.TargetInstanceID = uint32(f.varint)
		case 3:
			c.SenderInstanceID = uint32(f.varint)
		case 4:
			c.Text = string(f.bytes)
		}
	}
	if !sawTag {
		return TextCommand{}, fmt.Errorf("wire: missing message_type field")
	}
	return c, nil
}

// TopOfBookCommand carries a top-of-book quintuple for one symbol.
type TopOfBookCommand struct {
	CommandCommon
	Symbol       string
	BidPrice     float64
	BidSize      uint64
	AskPrice     float64
	AskSize      uint64
	ExchangeTime uint64
}

func (c TopOfBookCommand) Tag() Tag { return TagTopOfBookCommand }

func (c TopOfBookCommand) Encode() []byte {
	buf := make([]byte, 0, 64+len(c.Symbol))
	buf = writeVarintField(buf, 1, uint64(TagTopOfBookCommand))
	buf = writeVarintField(buf, 2, uint64(c.TargetInstanceID))
	buf = writeVarintField(buf, 3, uint64(c.SenderInstanceID))
	buf = writeStringField(buf, 4, c.Symbol)
	buf = writeDoubleField(buf, 5, c.BidPrice)
	buf = writeVarintField(buf, 6, c.BidSize)
	buf = writeDoubleField(buf, 7, c.AskPrice)
	buf = writeVarintField(buf, 8, c.AskSize)
	buf = writeVarintField(buf, 9, c.ExchangeTime)
	return buf
}

func DecodeTopOfBookCommand(data []byte) (TopOfBookCommand, error) {
	var c TopOfBookCommand
	rest := data
	sawTag := false
	for len(rest) > 0 {
		f, r, ok := nextField(rest)
		if !ok {
			return TopOfBookCommand{}, fmt.Errorf("wire: malformed TopOfBookCommand")
		}
		rest = r
		switch f.num {
		case 1:
			if Tag(f.varint) != TagTopOfBookCommand {
				return TopOfBookCommand{}, fmt.Errorf("wire: tag mismatch, want TopOfBookCommand got %d", f.varint)
			}
			sawTag = true
		case 2:
			c.TargetInstanceID = uint32(f.varint)
		case 3:
			c.SenderInstanceID = uint32(f.varint)
		case 4:
			c.Symbol = string(f.bytes)
		case 5:
			c.BidPrice = float64FromBits(f.fixed64)
		case 6:
			c.BidSize = f.varint
		case 7:
			c.AskPrice = float64FromBits(f.fixed64)
		case 8:
			c.AskSize = f.varint
		case 9:
			c.ExchangeTime = f.varint
		}
	}
	if !sawTag {
		return TopOfBookCommand{}, fmt.Errorf("wire: missing message_type field")
	}
	return c, nil
}
