// Command pong answers every TextEvent addressed to it with a "PONG" reply,
// illustrating the request/reply pair from spec §8's scenarios.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/burgrp-go/seqbus/internal/bus"
	"github.com/burgrp-go/seqbus/internal/config"
	"github.com/burgrp-go/seqbus/internal/identity"
	"github.com/burgrp-go/seqbus/internal/seqlog"
	"github.com/burgrp-go/seqbus/internal/transport"
	"github.com/burgrp-go/seqbus/internal/wire"
)

const multicastTTL = 1

func main() {
	logger := seqlog.New("pong")

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
	ownID, err := registry.Lookup("PONG")
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

	producer, err := bus.NewPublisher(ownID, cfg.CmdAddr, cfg.CmdPort, multicastTTL, iface)
	if err != nil {
		logger.Printf("transport error: %v", err)
		os.Exit(1)
	}
	defer producer.Close()

	bus.SubscribeEvent(consumer, wire.TagTextEvent, wire.DecodeTextEvent, func(e wire.TextEvent) {
		logger.Printf("received seq=%d text=%q from instance %d", e.Seq, e.Text, e.SenderInstanceID)
		if err := producer.PublishText(e.SenderInstanceID, "PONG"); err != nil {
			logger.Printf("reply publish failed: %v", err)
		}
	})

	logger.Printf("instance id %d listening", ownID)

	waitForSignal()
}

func waitForSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
}
