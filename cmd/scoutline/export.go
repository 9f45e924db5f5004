package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the preference-pairs training document",
	Long: `Export the session as a preference-pairs document: stats, the pair
list, the interaction ledger, and the learned preferences. The document
feeds downstream training; pairs are recorded but never replayed here.

Examples:
  scoutline export
  scoutline export -o taste.json
  scoutline export -o -          # write to stdout`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Output file ('-' for stdout; default scoutline-export-<timestamp>.json)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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

	doc, err := eng.Export(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}

	if exportOut == "-" {
		fmt.Println(string(data))
		return nil
	}

	path := exportOut
	if path == "" {
		path = defaultExportName(time.Now())
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Printf("wrote %s (%d events, %d pairs)\n", path, len(doc.Events), len(doc.Pairs))
	return nil
}
