package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Wipe all learned history",
	Long: `Clear the session: preferences, the interaction ledger, recorded
pairs, liked profiles, and the cumulative reward. The session stays
active and the wiped state is persisted.

Examples:
  scoutline clear
  scoutline clear --yes`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		fmt.Print("This permanently wipes all learned preferences and history. Type 'yes' to confirm: ")
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "yes" {
			fmt.Println("aborted")
			return nil
		}
	}

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

	if err := eng.ClearHistory(ctx); err != nil {
		return err
	}
	fmt.Println("history cleared")
	return nil
}
