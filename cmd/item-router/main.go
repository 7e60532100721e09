package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/operator-framework/item-router/pkg/lib/signals"
	"github.com/operator-framework/item-router/pkg/metrics"
	"github.com/operator-framework/item-router/pkg/version"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "item-router",
		Short: "item-router",
		Long:  `A CLI tool to place items so that every location stays reachable.`,

		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}

	metrics.RegisterRouter()

	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version of item-router",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.String())
		},
	})

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	if err := rootCmd.PersistentFlags().MarkHidden("debug"); err != nil {
		log.Panic(err.Error())
	}

	if err := rootCmd.ExecuteContext(signals.Context()); err != nil {
		os.Exit(1)
	}
}
