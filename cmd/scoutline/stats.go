package main

import (
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Session statistics",
	Long: `Print the session summary: event counts per action, learned
preference and pair counts, liked profiles, and cumulative reward.

Examples:
  scoutline stats
  scoutline stats --json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	eng, err := startEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdownEngine(eng)

	st, err := eng.Stats(ctx)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(os.Stdout, st)
	}
	printStats(os.Stdout, st)
	return nil
}
