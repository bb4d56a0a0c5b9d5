package commands

import "github.com/spf13/cobra"

func GetRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seqbusctl",
		Short: "seqbusctl is a command line tool for working with a seqbus bus.",
		Long: `The seqbusctl command is a command line tool for working with a seqbus bus.
It can publish commands, tap the ordered event stream, and resolve participant
instance ids.

seqbusctl reads the same environment as the long-running participants
(EVENTS_ADDR, EVENTS_PORT, CMD_ADDR, CMD_PORT, MCAST_IF_ADDR, INSTANCE_MAP_FILE,
...), optionally loaded from a local .env file.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		GetSendCommand(),
		GetTapCommand(),
		GetIdentityCommand(),
		GetVersionCommand(),
	)

	return cmd
}
