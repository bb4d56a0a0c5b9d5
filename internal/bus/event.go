package bus

import (
	"log"
	"net"
	"sync"

	"github.com/burgrp-go/seqbus/internal/transport"
	"github.com/burgrp-go/seqbus/internal/wire"
)

// Event is satisfied by every event payload type; wire.EventCommon (embedded
// in wire.TextEvent and wire.TopOfBookEvent) already provides the accessors
// below, so concrete event types need only add Tag().
type Event interface {
	Tag() wire.Tag
	TargetID() uint32
	SenderID() uint32
	GetSeq() uint64
	GetTimestamp() int64
}

// EventReceiver is the consumer-side typed subscription layer: target-
// instance filtering and gap/order tracking on top of tag-peek dispatch
// (spec §4.5). A tin of 0 is treated as "all recipients".
//
// expected is shared across every tag subscribed on this receiver, because
// seq is a single global counter the sequencer assigns across all event
// types, not a per-type counter.
type EventReceiver struct {
	ownInstanceID uint32
	promiscuous   bool
	transport     *transport.Receiver

	orderMu  sync.Mutex
	expected uint64
}

// NewEventReceiver constructs a consumer-side event receiver bound to the
// event multicast group, filtering for ownInstanceID. The initial expected
// sequence is pinned at 1, per spec §9's recommended baseline.
func NewEventReceiver(ownInstanceID uint32, groupAddr string, port int, opts ...transport.Option) *EventReceiver {
	return &EventReceiver{
		ownInstanceID: ownInstanceID,
		transport:     transport.NewReceiver(groupAddr, port, opts...),
		expected:      1,
	}
}

// NewAuditEventReceiver constructs a consumer-side event receiver that skips
// target-instance filtering entirely, dispatching every event regardless of
// tin. Gap/duplicate tracking still applies, since that's a property of the
// global seq counter, not of any one recipient. Meant for a sink that records
// the full ordered stream rather than acting as one addressable participant.
func NewAuditEventReceiver(ownInstanceID uint32, groupAddr string, port int, opts ...transport.Option) *EventReceiver {
	er := NewEventReceiver(ownInstanceID, groupAddr, port, opts...)
	er.promiscuous = true
	return er
}

func (er *EventReceiver) Start() error { return er.transport.Start() }
func (er *EventReceiver) Stop() error  { return er.transport.Stop() }

// checkOrder applies the duplicate/gap policy from spec §4.5 and reports
// whether the event should be dispatched.
func (er *EventReceiver) checkOrder(seq uint64) bool {
	er.orderMu.Lock()
	defer er.orderMu.Unlock()

	switch {
	case seq < er.expected:
		return false // duplicate/replay, drop silently
	case seq == er.expected:
		er.expected++
		return true
	default:
		log.Printf("bus: gap detected, expected seq=%d got seq=%d", er.expected, seq)
		return true
	}
}

// SubscribeEvent attaches a tag-filtered, typed handler. Each event that
// passes tag-peek and parse is filtered by target instance, then checked
// for ordering, before being dispatched.
func SubscribeEvent[E Event](er *EventReceiver, tag wire.Tag, decode func([]byte) (E, error), onEvent func(event E)) {
	er.transport.Subscribe(func(data []byte, _ *net.UDPAddr) {
		gotTag, ok := wire.PeekTag(data)
		if !ok || gotTag != tag {
			return
		}

		event, err := decode(data)
		if err != nil {
			log.Printf("bus: drop unparseable event tag=%d: %v", tag, err)
			return
		}

		if tin := event.TargetID(); !er.promiscuous && tin != 0 && tin != er.ownInstanceID {
			return
		}

		if !er.checkOrder(event.GetSeq()) {
			return
		}

		onEvent(event)
	})
}
