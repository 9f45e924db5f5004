package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scoutline/scoutline/pkg/types"
)

var scoreFile string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one candidate from a file",
	Long: `Score a single candidate against the current session's learned
preferences. The file holds one JSON entity envelope
({"kind": "person", ...}); use '-' to read it from stdin.

Examples:
  scoutline score -f founder.json
  cat founder.json | scoutline score -f -
  scoutline score -f founder.json --json`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreFile, "file", "f", "", "Entity envelope file ('-' for stdin)")
	_ = scoreCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	data, err := readInput(scoreFile)
	if err != nil {
		return err
	}
	entity, err := types.DecodeEntity(data)
	if err != nil {
		return fmt.Errorf("decode entity: %w", err)
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

	res, err := eng.Score(ctx, entity)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(os.Stdout, res)
	}
	printResult(os.Stdout, entity, res)
	return nil
}
