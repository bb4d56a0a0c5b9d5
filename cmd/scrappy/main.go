// Command scrappy appends every event it sees on the event multicast group
// to a file, one pipe-delimited line per event.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/burgrp-go/seqbus/internal/bus"
	"github.com/burgrp-go/seqbus/internal/config"
	"github.com/burgrp-go/seqbus/internal/identity"
	"github.com/burgrp-go/seqbus/internal/scrappy"
	"github.com/burgrp-go/seqbus/internal/seqlog"
	"github.com/burgrp-go/seqbus/internal/transport"
	"github.com/burgrp-go/seqbus/internal/wire"
)

func main() {
	logger := seqlog.New("scrappy")

	cfg, err := config.Load()
	if err != nil {
		logger.Printf("configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.ScrappyFile == "" {
		logger.Printf("SCRAPPY_FILE is required")
		os.Exit(1)
	}

	registry, err := identity.LoadFromEnv()
	if err != nil {
		logger.Printf("identity configuration error: %v", err)
		os.Exit(1)
	}
	ownID, err := registry.Lookup("SCRAPPY")
	if err != nil {
		logger.Printf("identity error: %v", err)
		os.Exit(1)
	}

	iface, err := transport.InterfaceForAddr(cfg.McastIfAddr)
	if err != nil {
		logger.Printf("interface configuration error: %v", err)
		os.Exit(1)
	}

	sink, err := scrappy.Open(cfg.ScrappyFile)
	if err != nil {
		logger.Printf("sink error: %v", err)
		os.Exit(1)
	}
	defer sink.Close()

	consumer := bus.NewAuditEventReceiver(ownID, cfg.EventsAddr, cfg.EventsPort, transport.WithInterface(iface))

	bus.SubscribeEvent(consumer, wire.TagTextEvent, wire.DecodeTextEvent, func(e wire.TextEvent) {
		if err := sink.WriteText(e); err != nil {
			logger.Printf("write failed: %v", err)
		}
	})
	bus.SubscribeEvent(consumer, wire.TagTopOfBookEvent, wire.DecodeTopOfBookEvent, func(e wire.TopOfBookEvent) {
		if err := sink.WriteTopOfBook(e); err != nil {
			logger.Printf("write failed: %v", err)
		}
	})

	if err := consumer.Start(); err != nil {
		logger.Printf("start error: %v", err)
		os.Exit(1)
	}
	defer consumer.Stop()

	logger.Printf("instance id %d appending events to %s", ownID, cfg.ScrappyFile)

	waitForSignal()
}

func waitForSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
}
