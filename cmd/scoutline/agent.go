package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scoutline/scoutline/internal/agent"
)

var (
	agentSeed     string
	agentWatch    string
	agentAutoSkip int
	agentRate     float64
	agentBurst    int
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Rate-limited scoring loop over a seed file or drop directory",
	Long: `Run the sourcing agent: drain a candidate source, score every entity
against the live session, and print the scoring feed. A watch-backed run
keeps going until interrupted; a seed-backed run exits when the file is
drained.

With --auto-skip-below, candidates scoring under the threshold get a SKIP
recorded so they stop resurfacing.

Examples:
  scoutline agent --seed candidates.json
  scoutline agent --watch ./drops --auto-skip-below 40
  scoutline agent --seed batch.yaml --rate 10 --burst 20`,
	Args: cobra.NoArgs,
	RunE: runAgent,
}

func init() {
	agentCmd.Flags().StringVar(&agentSeed, "seed", "", "Seed file of candidate envelopes (.json, .yaml, .yml)")
	agentCmd.Flags().StringVar(&agentWatch, "watch", "", "Drop directory to watch for candidate .json files")
	agentCmd.Flags().IntVar(&agentAutoSkip, "auto-skip-below", 0, "Record a SKIP for candidates scoring below this (0 disables)")
	agentCmd.Flags().Float64Var(&agentRate, "rate", 0, "Sustained scoring rate per second (overrides SCOUTLINE_AGENT_RATE)")
	agentCmd.Flags().IntVar(&agentBurst, "burst", 0, "Rate limiter burst size (overrides SCOUTLINE_AGENT_BURST)")
	rootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	src, err := openSource(agentSeed, agentWatch)
	if err != nil {
		return err
	}
	if src == nil {
		return errors.New("the agent needs a candidate source (--seed or --watch)")
	}

	opts := agent.Options{
		RatePerSecond: cfg.Agent.RatePerSecond,
		Burst:         cfg.Agent.Burst,
		AutoSkipBelow: cfg.Agent.AutoSkipBelow,
	}
	if cmd.Flags().Changed("rate") {
		opts.RatePerSecond = agentRate
	}
	if cmd.Flags().Changed("burst") {
		opts.Burst = agentBurst
	}
	if cmd.Flags().Changed("auto-skip-below") {
		opts.AutoSkipBelow = agentAutoSkip
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := startEngine(ctx, cfg)
	if err != nil {
		_ = src.Close()
		return err
	}

	runner, err := agent.NewRunner(eng, src, opts, os.Stdout)
	if err != nil {
		_ = src.Close()
		shutdownEngine(eng)
		return err
	}

	summary, runErr := runner.Run(ctx)
	_ = src.Close()
	shutdownEngine(eng)
	if runErr != nil {
		return runErr
	}

	fmt.Printf("\nscored %d candidates (%d auto-skipped, %d failed)\n",
		summary.Scored, summary.AutoSkips, summary.Failed)
	if summary.Scored > 0 {
		fmt.Printf("best: %s [%d]  mean score: %.1f\n", summary.BestName, summary.BestScore, summary.MeanScore)
	}
	fmt.Printf("cumulative reward: %+.1f\n", summary.Reward)
	return nil
}
