// Command ping publishes one TextCommand to PONG and waits for its reply,
// illustrating the request/reply pair from spec §8's scenarios.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/burgrp-go/seqbus/internal/bus"
	"github.com/burgrp-go/seqbus/internal/config"
	"github.com/burgrp-go/seqbus/internal/identity"
	"github.com/burgrp-go/seqbus/internal/seqlog"
	"github.com/burgrp-go/seqbus/internal/transport"
	"github.com/burgrp-go/seqbus/internal/wire"
)

const (
	multicastTTL = 1
	replyTimeout = 5 * time.Second
)

func main() {
	logger := seqlog.New("ping")

	cfg, err := config.Load()
	if err != nil {
		logger.Printf("configuration error: %v", err)
		os.Exit(1)
	}

	registry, err := identity.LoadFromEnv()
	if err != nil {
		logger.Printf("identity configuration error: %v", err)
		os.Exit(1)
	}
	ownID, err := registry.Lookup("PING")
	if err != nil {
		logger.Printf("identity error: %v", err)
		os.Exit(1)
	}
	pongID, err := registry.Lookup("PONG")
	if err != nil {
		logger.Printf("identity error: %v", err)
		os.Exit(1)
	}

	iface, err := transport.InterfaceForAddr(cfg.McastIfAddr)
	if err != nil {
		logger.Printf("interface configuration error: %v", err)
		os.Exit(1)
	}

	consumer := bus.NewEventReceiver(ownID, cfg.EventsAddr, cfg.EventsPort, transport.WithInterface(iface))
	if err := consumer.Start(); err != nil {
		logger.Printf("start error: %v", err)
		os.Exit(1)
	}
	defer consumer.Stop()

	replies := make(chan wire.TextEvent, 1)
	bus.SubscribeEvent(consumer, wire.TagTextEvent, wire.DecodeTextEvent, func(e wire.TextEvent) {
		replies <- e
	})

	producer, err := bus.NewPublisher(ownID, cfg.CmdAddr, cfg.CmdPort, multicastTTL, iface)
	if err != nil {
		logger.Printf("transport error: %v", err)
		os.Exit(1)
	}
	defer producer.Close()

	time.Sleep(100 * time.Millisecond) // let the join settle before sending

	if err := producer.PublishText(pongID, "PING"); err != nil {
		logger.Printf("publish error: %v", err)
		os.Exit(1)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case e := <-replies:
		logger.Printf("received seq=%d text=%q from instance %d", e.Seq, e.Text, e.SenderInstanceID)
	case <-sigs:
		logger.Printf("interrupted before a reply arrived")
	case <-time.After(replyTimeout):
		logger.Printf("timed out waiting for reply")
		os.Exit(1)
	}
}
