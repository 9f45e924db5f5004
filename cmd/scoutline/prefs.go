package main

import (
	"os"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Learned preference weights",
	Long: `Print every learned preference in canonical category order with its
positive and negative weight.

Examples:
  scoutline prefs
  scoutline prefs --json`,
	Args: cobra.NoArgs,
	RunE: runPrefs,
}

func init() {
	rootCmd.AddCommand(prefsCmd)
}

func runPrefs(cmd *cobra.Command, args []string) error {
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

	prefs, err := eng.Preferences(ctx)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(os.Stdout, prefs)
	}
	printPreferences(os.Stdout, prefs)
	return nil
}
