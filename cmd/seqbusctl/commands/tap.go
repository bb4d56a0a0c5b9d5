package commands

import (
	"fmt"

	"github.com/burgrp-go/seqbus/internal/bus"
	"github.com/burgrp-go/seqbus/internal/transport"
	"github.com/burgrp-go/seqbus/internal/wire"
	"github.com/spf13/cobra"
)

func GetTapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tap",
		Short: "Print every event seen on the event multicast group",
		Long:  `Joins the event group and prints each ordered event as it arrives, until interrupted. With --target, only events addressed to that instance are shown.`,
		RunE:  runTap,
	}
	cmd.Flags().String("target", "", "only show events addressed to this instance name or id")
	return cmd
}

func runTap(cmd *cobra.Command, args []string) error {
	env, err := GetEnvironment()
	if err != nil {
		return err
	}

	target, err := cmd.Flags().GetString("target")
	if err != nil {
		return err
	}

	var ownID uint32
	var consumer *bus.EventReceiver
	if target != "" {
		ownID, err = resolveInstance(env.Registry, target)
		if err != nil {
			return err
		}
		consumer = bus.NewEventReceiver(ownID, env.Config.EventsAddr, env.Config.EventsPort, transport.WithInterface(env.Iface))
	} else {
		consumer = bus.NewAuditEventReceiver(0, env.Config.EventsAddr, env.Config.EventsPort, transport.WithInterface(env.Iface))
	}

	bus.SubscribeEvent(consumer, wire.TagTextEvent, wire.DecodeTextEvent, func(e wire.TextEvent) {
		fmt.Printf("#%d sid=%d tin=%d ts=%d text=%q\n", e.Seq, e.SenderInstanceID, e.TargetInstanceID, e.Timestamp, e.Text)
	})
	bus.SubscribeEvent(consumer, wire.TagTopOfBookEvent, wire.DecodeTopOfBookEvent, func(e wire.TopOfBookEvent) {
		fmt.Printf("#%d sid=%d tin=%d ts=%d symbol=%s bid=%g/%d ask=%g/%d\n",
			e.Seq, e.SenderInstanceID, e.TargetInstanceID, e.Timestamp, e.Symbol, e.BidPrice, e.BidSize, e.AskPrice, e.AskSize)
	})

	if err := consumer.Start(); err != nil {
		return err
	}
	defer consumer.Stop()

	<-cmd.Context().Done()
	return nil
}
