package bus

import (
	"log"
	"sync"
	"time"

	"github.com/burgrp-go/seqbus/internal/transport"
	"github.com/burgrp-go/seqbus/internal/wire"
)

// task is one queued unit of ordering work: given the seq and timestamp the
// worker just assigned, produce and emit the corresponding event.
type task func(seq uint64, ts int64)

// Sequencer accepts commands, totally orders them, promotes each to an
// event, and multicasts the event (spec §4.4). Exactly one worker drains
// its task queue, so enqueue order is total order.
type Sequencer struct {
	cmdReceiver *CommandReceiver
	eventSender *transport.Sender

	nextSeq uint64

	queueMu sync.Mutex
	cond    *sync.Cond
	queue   []task

	runMu   sync.Mutex
	running bool
	wg      sync.WaitGroup

	handlersMu sync.Mutex
	handlers   map[wire.Tag][]func(Event)
}

// NewSequencer builds a sequencer that receives commands via cmdReceiver and
// emits events through eventSender.
func NewSequencer(cmdReceiver *CommandReceiver, eventSender *transport.Sender) *Sequencer {
	s := &Sequencer{
		cmdReceiver: cmdReceiver,
		eventSender: eventSender,
		handlers:    make(map[wire.Tag][]func(Event)),
	}
	s.cond = sync.NewCond(&s.queueMu)
	return s
}

// Start starts the underlying command receiver and the single ordering
// worker. Idempotent.
func (s *Sequencer) Start() error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.running {
		return nil
	}
	if err := s.cmdReceiver.Start(); err != nil {
		return err
	}
	s.running = true
	s.wg.Add(1)
	go s.worker()
	return nil
}

// Stop quiesces the worker and the underlying command receiver. Idempotent.
func (s *Sequencer) Stop() error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if !s.running {
		return nil
	}

	s.queueMu.Lock()
	s.running = false
	s.cond.Broadcast()
	s.queueMu.Unlock()

	s.wg.Wait()
	return s.cmdReceiver.Stop()
}

func (s *Sequencer) enqueue(t task) {
	s.queueMu.Lock()
	s.queue = append(s.queue, t)
	s.cond.Signal()
	s.queueMu.Unlock()
}

func (s *Sequencer) worker() {
	defer s.wg.Done()
	for {
		s.queueMu.Lock()
		for len(s.queue) == 0 && s.running {
			s.cond.Wait()
		}
		if len(s.queue) == 0 && !s.running {
			s.queueMu.Unlock()
			return
		}
		t := s.queue[0]
		s.queue = s.queue[1:]
		s.queueMu.Unlock()

		seq := s.allocateSeq()
		ts := time.Now().UnixMicro()
		t(seq, ts)
	}
}

func (s *Sequencer) allocateSeq() uint64 {
	s.nextSeq++
	return s.nextSeq
}

func (s *Sequencer) notify(tag wire.Tag, event Event) {
	s.handlersMu.Lock()
	snapshot := make([]func(Event), len(s.handlers[tag]))
	copy(snapshot, s.handlers[tag])
	s.handlersMu.Unlock()

	for _, h := range snapshot {
		h(event)
	}
}

// OnEvent registers an in-process callback invoked after each event of the
// given tag is emitted on the wire, used for local sinks (spec §4.4's
// subscribe_to_events<EventT>).
func OnEvent[E Event](s *Sequencer, tag wire.Tag, handler func(event E)) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers[tag] = append(s.handlers[tag], func(e Event) { handler(e.(E)) })
}

// RegisterPipeline declares an adapter for one command type: its input tag,
// a pure make_event function, and a serializer, per spec §4.4's pipeline
// registration contract.
func RegisterPipeline[C Command, E Event](
	s *Sequencer,
	commandTag wire.Tag,
	decode func([]byte) (C, error),
	makeEvent func(cmd C, seq uint64, senderID uint32, ts int64) E,
	serialize func(E) []byte,
) {
	SubscribeCommand(s.cmdReceiver, commandTag, decode, func(cmd C) {
		senderID := cmd.SenderID()
		s.enqueue(func(seq uint64, ts int64) {
			event := makeEvent(cmd, seq, senderID, ts)
			data := serialize(event)
			if err := s.eventSender.Send(data); err != nil {
				log.Printf("sequencer: send failed for seq=%d: %v", seq, err)
				return
			}
			s.notify(event.Tag(), event)
		})
	})
}

// Retransmit is defined for future use; in this core it is a no-op that
// logs the request (spec §4.4).
func (s *Sequencer) Retransmit(fromSeq, toSeq uint64) {
	log.Printf("sequencer: retransmit requested for seq range [%d,%d] - not implemented", fromSeq, toSeq)
}
