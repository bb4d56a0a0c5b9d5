package commands

import (
	"fmt"
	"strconv"

	"github.com/burgrp-go/seqbus/internal/bus"
	"github.com/burgrp-go/seqbus/internal/wire"
	"github.com/spf13/cobra"
)

const sendMulticastTTL = 1

func GetSendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Publish one command to the command multicast group",
	}

	cmd.AddCommand(
		getSendTextCommand(),
		getSendTopOfBookCommand(),
	)

	return cmd
}

func getSendTextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text <target> <text>",
		Short: "Publish a TextCommand",
		Long:  `Publishes a TextCommand addressed to <target> (a registered instance name or a numeric instance id).`,
		Args:  cobra.ExactArgs(2),
		RunE:  runSendText,
	}
	cmd.Flags().String("as", "", "instance name or id to send as (defaults to SEQBUSCTL if registered)")
	return cmd
}

func getSendTopOfBookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tob <target> <symbol> <bid> <bidsize> <ask> <asksize>",
		Short: "Publish a TopOfBookCommand",
		Long:  `Publishes a TopOfBookCommand addressed to <target> (a registered instance name or a numeric instance id).`,
		Args:  cobra.ExactArgs(6),
		RunE:  runSendTopOfBook,
	}
	cmd.Flags().String("as", "", "instance name or id to send as (defaults to SEQBUSCTL if registered)")
	return cmd
}

// senderIdentity resolves the --as flag to an instance id, falling back to
// the SEQBUSCTL entry in the registry (added as an overlay entry by
// operators who want a stable identity for ad-hoc publishes).
func senderIdentity(cmd *cobra.Command, env *Environment) (uint32, error) {
	as, err := cmd.Flags().GetString("as")
	if err != nil {
		return 0, err
	}
	if as != "" {
		return resolveInstance(env.Registry, as)
	}
	if id, err := env.Registry.Lookup("SEQBUSCTL"); err == nil {
		return id, nil
	}
	return 0, nil
}

func runSendText(cmd *cobra.Command, args []string) error {
	env, err := GetEnvironment()
	if err != nil {
		return err
	}

	targetID, err := resolveInstance(env.Registry, args[0])
	if err != nil {
		return err
	}
	text := args[1]

	ownID, err := senderIdentity(cmd, env)
	if err != nil {
		return err
	}

	publisher, err := bus.NewPublisher(ownID, env.Config.CmdAddr, env.Config.CmdPort, sendMulticastTTL, env.Iface)
	if err != nil {
		return err
	}
	defer publisher.Close()

	if err := publisher.PublishText(targetID, text); err != nil {
		return err
	}

	fmt.Printf("sent text %q to instance %d as instance %d\n", text, targetID, ownID)
	return nil
}

func runSendTopOfBook(cmd *cobra.Command, args []string) error {
	env, err := GetEnvironment()
	if err != nil {
		return err
	}

	targetID, err := resolveInstance(env.Registry, args[0])
	if err != nil {
		return err
	}
	symbol := args[1]

	bid, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("bid: %w", err)
	}
	bidSize, err := strconv.ParseUint(args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("bidsize: %w", err)
	}
	ask, err := strconv.ParseFloat(args[4], 64)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}
	askSize, err := strconv.ParseUint(args[5], 10, 64)
	if err != nil {
		return fmt.Errorf("asksize: %w", err)
	}

	ownID, err := senderIdentity(cmd, env)
	if err != nil {
		return err
	}

	publisher, err := bus.NewPublisher(ownID, env.Config.CmdAddr, env.Config.CmdPort, sendMulticastTTL, env.Iface)
	if err != nil {
		return err
	}
	defer publisher.Close()

	cmdMsg := wire.TopOfBookCommand{
		Symbol:   symbol,
		BidPrice: bid,
		BidSize:  bidSize,
		AskPrice: ask,
		AskSize:  askSize,
	}
	if err := publisher.PublishTopOfBook(targetID, cmdMsg); err != nil {
		return err
	}

	fmt.Printf("sent top-of-book %s to instance %d as instance %d\n", symbol, targetID, ownID)
	return nil
}
