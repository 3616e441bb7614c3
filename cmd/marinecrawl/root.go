package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for marinecrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marinecrawl",
		Short: "Crawler for port and vessel data of Brazilian ports",
		Long: `marinecrawl collects ports, ships in port, expected arrivals and vessel
particulars from a vessel-tracking website and writes them as ';' separated
datasets (a snapshot and a cumulative file per dataset).

Passes run in dependency order: ports, ships-in-port, expected-arrivals,
ships-of-interest. Each pass reads the datasets written by the passes before
it, so a single pass can be re-run against the files of a previous run.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .marinecrawl in current or home directory)")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
