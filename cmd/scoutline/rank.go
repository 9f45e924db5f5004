package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/scoutline/scoutline/internal/source"
	"github.com/scoutline/scoutline/pkg/types"
)

var rankFile string

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a batch of candidates from a seed file",
	Long: `Score every candidate in a seed file and print them best-first.
Ties keep the file order.

Examples:
  scoutline rank -f batch.json
  scoutline rank -f batch.yaml --json`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVarP(&rankFile, "file", "f", "", "Seed file of candidate envelopes (.json, .yaml, .yml)")
	_ = rankCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	entities, err := loadSeedEntities(ctx, rankFile)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		return fmt.Errorf("no candidates in %s", rankFile)
	}

	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}
	eng, err := startEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdownEngine(eng)

	ranked, err := eng.Rank(ctx, entities)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(os.Stdout, ranked)
	}
	for _, res := range ranked {
		name := res.Name
		if name == "" {
			name = res.EntityID
		}
		fmt.Printf("%2d. [%3d] %s (%s)\n", res.Rank, res.Score, name, res.EntityID)
	}
	return nil
}

// loadSeedEntities drains a seed file into a slice.
func loadSeedEntities(ctx context.Context, path string) ([]types.Entity, error) {
	src, err := source.NewFileSource(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	var entities []types.Entity
	for {
		entity, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return entities, nil
		}
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
}
