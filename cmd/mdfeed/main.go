// Command mdfeed bridges one external HTTP/SSE top-of-book stream into the
// command multicast group, as a TopOfBookCommand producer.
package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/burgrp-go/seqbus/internal/bus"
	"github.com/burgrp-go/seqbus/internal/config"
	"github.com/burgrp-go/seqbus/internal/identity"
	"github.com/burgrp-go/seqbus/internal/mdfeed"
	"github.com/burgrp-go/seqbus/internal/seqlog"
	"github.com/burgrp-go/seqbus/internal/transport"
)

const multicastTTL = 1

func main() {
	logger := seqlog.New("mdfeed")

	cfg, err := config.Load()
	if err != nil {
		logger.Printf("configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.MDSourceHost == "" || cfg.MDSourcePort == 0 || cfg.MDSourcePath == "" {
		logger.Printf("MD_SOURCE_HOST, MD_SOURCE_PORT and MD_SOURCE_PATH are required")
		os.Exit(1)
	}

	registry, err := identity.LoadFromEnv()
	if err != nil {
		logger.Printf("identity configuration error: %v", err)
		os.Exit(1)
	}
	ownID, err := registry.Lookup("MD")
	if err != nil {
		logger.Printf("identity error: %v", err)
		os.Exit(1)
	}

	iface, err := transport.InterfaceForAddr(cfg.McastIfAddr)
	if err != nil {
		logger.Printf("interface configuration error: %v", err)
		os.Exit(1)
	}

	producer, err := bus.NewPublisher(ownID, cfg.CmdAddr, cfg.CmdPort, multicastTTL, iface)
	if err != nil {
		logger.Printf("transport error: %v", err)
		os.Exit(1)
	}
	defer producer.Close()

	// Broadcast (target=0) by default: the feed doesn't know in advance
	// which participant wants market data.
	const broadcastTarget = 0
	feed := mdfeed.NewFeed(cfg.MDSourceHost, strconv.Itoa(cfg.MDSourcePort), cfg.MDSourcePath, broadcastTarget, producer)

	logger.Printf("instance id %d streaming from %s:%d%s", ownID, cfg.MDSourceHost, cfg.MDSourcePort, cfg.MDSourcePath)

	go feed.Run()

	waitForSignal()
	feed.Stop()
}

func waitForSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
}
