// Command seqd runs the sequencer: it totally orders commands arriving on
// the command multicast group and republishes promoted, ordered events on
// the event group.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/burgrp-go/seqbus/internal/bus"
	"github.com/burgrp-go/seqbus/internal/config"
	"github.com/burgrp-go/seqbus/internal/identity"
	"github.com/burgrp-go/seqbus/internal/scrappy"
	"github.com/burgrp-go/seqbus/internal/seqlog"
	"github.com/burgrp-go/seqbus/internal/transport"
	"github.com/burgrp-go/seqbus/internal/wire"
)

const multicastTTL = 1

func main() {
	logger := seqlog.New("seqd")

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
	ownID, err := registry.Lookup("SEQ")
	if err != nil {
		logger.Printf("identity error: %v", err)
		os.Exit(1)
	}

	iface, err := transport.InterfaceForAddr(cfg.McastIfAddr)
	if err != nil {
		logger.Printf("interface configuration error: %v", err)
		os.Exit(1)
	}

	cmdRecv := bus.NewCommandReceiver(cfg.CmdAddr, cfg.CmdPort,
		transport.WithInterface(iface),
		transport.WithDedup(cfg.DedupEnabled, time.Duration(cfg.DedupWindowMS)*time.Millisecond),
	)

	eventSender, err := transport.NewSender(cfg.EventsAddr, cfg.EventsPort, multicastTTL, iface)
	if err != nil {
		logger.Printf("transport error: %v", err)
		os.Exit(1)
	}
	defer eventSender.Close()

	seq := bus.NewSequencer(cmdRecv, eventSender)
	bus.RegisterDefaultPipelines(seq)

	if cfg.ScrappyFile != "" {
		attachLocalSink(logger, seq, cfg.ScrappyFile)
	}

	logger.Printf("instance id %d starting: cmd=%s:%d events=%s:%d", ownID, cfg.CmdAddr, cfg.CmdPort, cfg.EventsAddr, cfg.EventsPort)

	if err := seq.Start(); err != nil {
		logger.Printf("start error: %v", err)
		os.Exit(1)
	}

	waitForSignal()

	if err := seq.Stop(); err != nil {
		logger.Printf("stop error: %v", err)
		os.Exit(1)
	}
}

// attachLocalSink gives seqd itself an in-process copy of the file sink, so
// the sequencer's own event stream can be audited without a separate
// scrappy process joining the event group.
func attachLocalSink(logger interface{ Printf(string, ...any) }, seq *bus.Sequencer, path string) {
	sink, err := scrappy.Open(path)
	if err != nil {
		logger.Printf("local sink disabled: %v", err)
		return
	}
	bus.OnEvent(seq, wire.TagTextEvent, func(e wire.TextEvent) {
		if err := sink.WriteText(e); err != nil {
			logger.Printf("local sink write failed: %v", err)
		}
	})
	bus.OnEvent(seq, wire.TagTopOfBookEvent, func(e wire.TopOfBookEvent) {
		if err := sink.WriteTopOfBook(e); err != nil {
			logger.Printf("local sink write failed: %v", err)
		}
	})
}

func waitForSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
}
