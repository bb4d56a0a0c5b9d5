package commands

import (
	"fmt"
	"sort"

	"github.com/burgrp-go/seqbus/internal/identity"
	"github.com/spf13/cobra"
)

var Version = "local-build"

func GetVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Long:  `Shows the seqbusctl version and, with --registry, the default instance-id registry it was built with.`,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("registry", false, "also list the built-in default instance-id registry")
	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Println(Version)

	showRegistry, err := cmd.Flags().GetBool("registry")
	if err != nil || !showRegistry {
		return err
	}
	printDefaultRegistry()
	return nil
}

func printDefaultRegistry() {
	names := identity.Default().Names()
	sort.Strings(names)
	for _, name := range names {
		id, _ := identity.Default().Lookup(name)
		fmt.Printf("%s=%d\n", name, id)
	}
}
