// Package agent runs the sourcing loop: drain a candidate source, score
// every entity through the session engine, and report what it saw.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/time/rate"

	"github.com/scoutline/scoutline/internal/engine"
	"github.com/scoutline/scoutline/internal/source"
	"github.com/scoutline/scoutline/pkg/types"
)

// Options tunes the sourcing loop.
type Options struct {
	// RatePerSecond is the sustained scoring rate.
	RatePerSecond float64

	// Burst is the rate limiter burst size.
	Burst int

	// AutoSkipBelow records a SKIP for every candidate scoring below the
	// threshold, so weak candidates stop resurfacing. 0 disables.
	AutoSkipBelow int
}

// Summary reports what a run accomplished.
type Summary struct {
	Scored    int     // candidates scored
	AutoSkips int     // SKIP feedback recorded by the threshold
	Failed    int     // candidates that could not be scored
	BestScore int     // highest score seen
	BestName  string  // display name of the highest scorer
	MeanScore float64 // mean over scored candidates
	Reward    float64 // session cumulative reward at exit
}

// Runner drives candidates from a source through the engine at a bounded
// rate.
type Runner struct {
	engine  *engine.Engine
	source  source.Source
	limiter *rate.Limiter
	opts    Options
	out     io.Writer
	logger  *log.Logger
}

// NewRunner wires a runner. out receives the human-readable scoring feed.
func NewRunner(eng *engine.Engine, src source.Source, opts Options, out io.Writer) (*Runner, error) {
	if eng == nil {
		return nil, fmt.Errorf("agent: engine is required")
	}
	if src == nil {
		return nil, fmt.Errorf("agent: source is required")
	}
	if opts.RatePerSecond <= 0 {
		return nil, fmt.Errorf("agent: rate must be > 0, got %v", opts.RatePerSecond)
	}
	if opts.Burst < 1 {
		return nil, fmt.Errorf("agent: burst must be >= 1, got %d", opts.Burst)
	}
	if out == nil {
		out = io.Discard
	}

	return &Runner{
		engine:  eng,
		source:  src,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Burst),
		opts:    opts,
		out:     out,
		logger:  log.New(os.Stderr, "agent: ", log.LstdFlags),
	}, nil
}

// Run drains the source until io.EOF or context cancellation, scoring each
// candidate. Cancellation is a normal way to stop a watch-backed run: the
// summary so far is returned with a nil error.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	totalScore := 0

	for {
		entity, err := r.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("agent: source failed: %w", err)
		}
		if entity == nil {
			continue
		}

		if err := r.limiter.Wait(ctx); err != nil {
			break
		}

		res, err := r.engine.Score(ctx, entity)
		if err != nil {
			r.logger.Printf("failed to score %s: %v", entity.EntityID(), err)
			sum.Failed++
			continue
		}

		r.printResult(entity, res.Score, res.Reasons, res.Warnings)
		sum.Scored++
		totalScore += res.Score
		if res.Score > sum.BestScore || sum.Scored == 1 {
			sum.BestScore = res.Score
			sum.BestName = entity.DisplayName()
		}

		if r.opts.AutoSkipBelow > 0 && res.Score < r.opts.AutoSkipBelow {
			if _, err := r.engine.Feedback(ctx, entity, types.ActionSkip, ""); err != nil {
				r.logger.Printf("failed to record auto-skip for %s: %v", entity.EntityID(), err)
			} else {
				sum.AutoSkips++
			}
		}
	}

	if sum.Scored > 0 {
		sum.MeanScore = float64(totalScore) / float64(sum.Scored)
	}
	if reward, err := r.engine.CumulativeReward(ctx); err == nil {
		sum.Reward = reward
	}
	return sum, nil
}

func (r *Runner) printResult(entity types.Entity, score int, reasons, warnings []string) {
	fmt.Fprintf(r.out, "[%3d] %s (%s %s)\n", score, entity.DisplayName(), entity.EntityKind(), entity.EntityID())
	for _, reason := range reasons {
		fmt.Fprintf(r.out, "      + %s\n", reason)
	}
	for _, warning := range warnings {
		fmt.Fprintf(r.out, "      - %s\n", warning)
	}
}
