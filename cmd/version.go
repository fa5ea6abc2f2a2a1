package cmd

import (
	"fmt"

	"github.com/chukul/eventpush/internal"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "eventpush version %s\n", internal.Version())
		fmt.Fprintf(cmd.OutOrStdout(), "   Bus: %s (%s)\n", internal.EventBusName, internal.Region)
		fmt.Fprintf(cmd.OutOrStdout(), "   Source: %s\n", internal.EventSource)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
