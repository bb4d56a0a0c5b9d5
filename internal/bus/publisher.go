package bus

import (
	"net"

	"github.com/burgrp-go/seqbus/internal/transport"
	"github.com/burgrp-go/seqbus/internal/wire"
)

// Publisher is the producer side of the bus: it stamps every command with
// the producer's own instance id before sending, so the sequencer can
// impute sender_instance_id without trusting the payload's target field.
type Publisher struct {
	ownInstanceID uint32
	sender        *transport.Sender
}

// NewPublisher constructs a command publisher bound to the command
// multicast group, identified as ownInstanceID.
func NewPublisher(ownInstanceID uint32, groupAddr string, port int, ttl int, iface *net.Interface) (*Publisher, error) {
	sender, err := transport.NewSender(groupAddr, port, ttl, iface)
	if err != nil {
		return nil, err
	}
	return &Publisher{ownInstanceID: ownInstanceID, sender: sender}, nil
}

// PublishText sends a TextCommand addressed to targetID (0 = broadcast).
func (p *Publisher) PublishText(targetID uint32, text string) error {
	cmd := wire.TextCommand{
		CommandCommon: wire.CommandCommon{TargetInstanceID: targetID, SenderInstanceID: p.ownInstanceID},
		Text:          text,
	}
	return p.sender.Send(cmd.Encode())
}

// PublishTopOfBook sends a TopOfBookCommand addressed to targetID. The
// TargetInstanceID/SenderInstanceID on cmd are overwritten with targetID and
// the publisher's own id.
func (p *Publisher) PublishTopOfBook(targetID uint32, cmd wire.TopOfBookCommand) error {
	cmd.TargetInstanceID = targetID
	cmd.SenderInstanceID = p.ownInstanceID
	return p.sender.Send(cmd.Encode())
}

// Close releases the publisher's underlying socket.
func (p *Publisher) Close() error {
	return p.sender.Close()
}
