// Package bus implements the typed subscription layer, sequencer core, and
// consumer-side event receiver that sit above the raw multicast transport
// (spec §4.2-§4.5).
package bus

import (
	"log"
	"net"

	"github.com/burgrp-go/seqbus/internal/transport"
	"github.com/burgrp-go/seqbus/internal/wire"
)

// Command is satisfied by every command payload type; wire.CommandCommon
// (embedded in wire.TextCommand and wire.TopOfBookCommand) already provides
// TargetID/SenderID, so concrete command types need only add Tag().
type Command interface {
	Tag() wire.Tag
	TargetID() uint32
	SenderID() uint32
}

// CommandReceiver is the command-side typed subscription layer: for each
// registered (command_tag, command_type) it peeks the tag, parses, and
// dispatches to a typed handler. Parse failures are logged and dropped.
type CommandReceiver struct {
	transport *transport.Receiver
}

// NewCommandReceiver constructs the command-side receiver bound to the
// command multicast group.
func NewCommandReceiver(groupAddr string, port int, opts ...transport.Option) *CommandReceiver {
	return &CommandReceiver{transport: transport.NewReceiver(groupAddr, port, opts...)}
}

func (cr *CommandReceiver) Start() error { return cr.transport.Start() }
func (cr *CommandReceiver) Stop() error  { return cr.transport.Stop() }

// SubscribeCommand attaches a tag-filtered, typed handler to a
// CommandReceiver. Mismatched tags are silently ignored; parse failures are
// logged and dropped; they are never fatal.
func SubscribeCommand[C Command](cr *CommandReceiver, tag wire.Tag, decode func([]byte) (C, error), onCommand func(cmd C)) {
	cr.transport.Subscribe(func(data []byte, _ *net.UDPAddr) {
		gotTag, ok := wire.PeekTag(data)
		if !ok || gotTag != tag {
			return
		}
		cmd, err := decode(data)
		if err != nil {
			log.Printf("bus: drop unparseable command tag=%d: %v", tag, err)
			return
		}
		onCommand(cmd)
	})
}
