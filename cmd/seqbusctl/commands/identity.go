package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func GetIdentityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity <name>",
		Short: "Look up a registered participant's instance id",
		Long:  `Resolves a participant name (e.g. SEQ, PING, PONG, MD, SCRAPPY, or an INSTANCE_MAP_FILE overlay entry) to its numeric instance id.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runIdentity,
	}
	return cmd
}

func runIdentity(cmd *cobra.Command, args []string) error {
	env, err := GetEnvironment()
	if err != nil {
		return err
	}

	id, err := env.Registry.Lookup(args[0])
	if err != nil {
		return err
	}

	fmt.Println(id)
	return nil
}
