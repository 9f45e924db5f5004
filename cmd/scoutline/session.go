// session.go implements the interactive triage REPL. Commands arrive as
// single newline-terminated lines on stdin and every response is written
// line-framed to stdout; diagnostic output goes to stderr only so stdout
// stays clean for driving the session from another process.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoutline/scoutline/internal/engine"
	"github.com/scoutline/scoutline/internal/source"
	"github.com/scoutline/scoutline/pkg/types"
)

// replBufSize bounds a single REPL input line (1 MB).
const replBufSize = 1 << 20

// errQuit signals a clean exit requested by the operator.
var errQuit = errors.New("quit")

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Interactive triage REPL (the default command)",
	Long: `Open the interactive session REPL. Candidates come from --seed or
--watch; feedback commands teach the session your taste.

Commands:
  next                 pull and score the next candidate
  show                 re-print the current candidate in full
  like <reason>        record a LIKE for the current candidate
  dislike <reason>     record a DISLIKE
  save [reason]        shortlist the current candidate (strongest signal)
  skip                 pass without learning from it
  note <text>          attach a note (reinforces positively)
  pair                 pull two candidates for an A/B choice
  prefer_a <reason>    record that A beats B
  prefer_b <reason>    record that B beats A
  rank                 re-rank everything seen this session
  similar              liked profiles closest to the current candidate
  prefs                learned preference weights
  stats                session statistics
  export [file]        write the training export (default scoutline-export-<ts>.json)
  clear                wipe all learned history
  help                 this list
  quit                 leave the session

Examples:
  scoutline session --seed candidates.json
  scoutline session --watch ./drops`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	addSourceFlags(sessionCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := startEngine(ctx, cfg)
	if err != nil {
		return err
	}

	src, err := openSource(seedPath, watchDir)
	if err != nil {
		shutdownEngine(eng)
		return err
	}

	r := newREPL(eng, src, os.Stdin, os.Stdout)
	r.logger.Printf("session %q ready (type 'help' for commands)", eng.SessionID())
	runErr := r.run(ctx)

	if src != nil {
		_ = src.Close()
	}
	shutdownEngine(eng)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// repl holds the interactive session state: the engine, the optional
// candidate source, and the candidates staged by next/pair.
type repl struct {
	eng    *engine.Engine
	src    source.Source
	in     io.Reader
	out    io.Writer
	logger *log.Logger

	current types.Entity   // last candidate pulled by next
	pairA   types.Entity   // A/B candidates staged by pair
	pairB   types.Entity
	seen    []types.Entity // everything pulled this session, for rank
}

func newREPL(eng *engine.Engine, src source.Source, in io.Reader, out io.Writer) *repl {
	return &repl{
		eng: eng,
		src: src,
		in:  in,
		out: out,
		// Explicitly target stderr so log output never touches stdout.
		logger: log.New(os.Stderr, "session: ", log.LstdFlags),
	}
}

// run processes commands until stdin closes, the operator quits, or the
// context is cancelled. Each command is handled synchronously in order.
func (r *repl) run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), replBufSize)

	for {
		// Check context before blocking on the next line.
		select {
		case <-ctx.Done():
			r.logger.Println("context cancelled, leaving session")
			return ctx.Err()
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read command: %w", err)
			}
			// Clean EOF, stdin was closed.
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := r.dispatch(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			// Engine validation errors reject the command and keep the
			// session going; nothing has mutated.
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

func (r *repl) dispatch(ctx context.Context, line string) error {
	verb, rest := line, ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		verb, rest = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch strings.ToLower(verb) {
	case "next":
		return r.cmdNext(ctx)
	case "show":
		return r.cmdShow()
	case "like":
		return r.cmdFeedback(ctx, types.ActionLike, rest, true)
	case "dislike":
		return r.cmdFeedback(ctx, types.ActionDislike, rest, true)
	case "save":
		return r.cmdFeedback(ctx, types.ActionSave, rest, false)
	case "skip":
		return r.cmdFeedback(ctx, types.ActionSkip, "", false)
	case "note":
		return r.cmdNote(ctx, rest)
	case "pair":
		return r.cmdPair(ctx)
	case "prefer_a":
		return r.cmdPrefer(ctx, true, rest)
	case "prefer_b":
		return r.cmdPrefer(ctx, false, rest)
	case "rank":
		return r.cmdRank(ctx)
	case "similar":
		return r.cmdSimilar(ctx)
	case "prefs":
		return r.cmdPrefs(ctx)
	case "stats":
		return r.cmdStats(ctx)
	case "export":
		return r.cmdExport(ctx, rest)
	case "clear":
		return r.cmdClear(ctx)
	case "help":
		r.printHelp()
		return nil
	case "quit", "exit":
		return errQuit
	default:
		fmt.Fprintf(r.out, "unknown command %q (type 'help' for the command list)\n", verb)
		return nil
	}
}

func (r *repl) cmdNext(ctx context.Context) error {
	if r.src == nil {
		fmt.Fprintln(r.out, "no candidate source configured (start with --seed or --watch)")
		return nil
	}

	entity, err := r.src.Next(ctx)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(r.out, "source drained")
		return nil
	}
	if err != nil {
		return err
	}

	r.current = entity
	r.seen = append(r.seen, entity)

	res, err := r.eng.Score(ctx, entity)
	if err != nil {
		return err
	}
	printResult(r.out, entity, res)
	return nil
}

func (r *repl) cmdShow() error {
	if r.current == nil {
		fmt.Fprintln(r.out, "no current candidate (use 'next' first)")
		return nil
	}
	printEntity(r.out, r.current)
	return nil
}

func (r *repl) cmdFeedback(ctx context.Context, action types.Action, rationale string, needReason bool) error {
	if r.current == nil {
		fmt.Fprintln(r.out, "no current candidate (use 'next' first)")
		return nil
	}
	if needReason && rationale == "" {
		fmt.Fprintf(r.out, "usage: %s <reason>\n", strings.ToLower(string(action)))
		return nil
	}

	ev, err := r.eng.Feedback(ctx, r.current, action, rationale)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s recorded for %s (reward %+.1f)\n", ev.Action, r.current.DisplayName(), ev.Reward)
	return nil
}

func (r *repl) cmdNote(ctx context.Context, note string) error {
	if r.current == nil {
		fmt.Fprintln(r.out, "no current candidate (use 'next' first)")
		return nil
	}
	if note == "" {
		fmt.Fprintln(r.out, "usage: note <text>")
		return nil
	}

	if _, err := r.eng.Annotate(ctx, r.current, note); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "note recorded for %s\n", r.current.DisplayName())
	return nil
}

func (r *repl) cmdPair(ctx context.Context) error {
	if r.src == nil {
		fmt.Fprintln(r.out, "no candidate source configured (start with --seed or --watch)")
		return nil
	}

	a, err := r.src.Next(ctx)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(r.out, "source drained")
		return nil
	}
	if err != nil {
		return err
	}

	b, err := r.src.Next(ctx)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(r.out, "source drained before a second candidate arrived")
		return nil
	}
	if err != nil {
		return err
	}

	r.pairA, r.pairB = a, b
	r.seen = append(r.seen, a, b)

	resA, err := r.eng.Score(ctx, a)
	if err != nil {
		return err
	}
	resB, err := r.eng.Score(ctx, b)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "A: [%3d] %s (%s %s)\n", resA.Score, a.DisplayName(), a.EntityKind(), a.EntityID())
	fmt.Fprintf(r.out, "B: [%3d] %s (%s %s)\n", resB.Score, b.DisplayName(), b.EntityKind(), b.EntityID())
	fmt.Fprintln(r.out, "record a choice with 'prefer_a <reason>' or 'prefer_b <reason>'")
	return nil
}

func (r *repl) cmdPrefer(ctx context.Context, aWins bool, rationale string) error {
	if r.pairA == nil || r.pairB == nil {
		fmt.Fprintln(r.out, "no pair staged (use 'pair' first)")
		return nil
	}

	verb := "prefer_a"
	if !aWins {
		verb = "prefer_b"
	}
	if rationale == "" {
		fmt.Fprintf(r.out, "usage: %s <reason>\n", verb)
		return nil
	}

	winner, loser := r.pairA, r.pairB
	if !aWins {
		winner, loser = r.pairB, r.pairA
	}

	if _, err := r.eng.PreferPair(ctx, winner, loser, rationale); err != nil {
		return err
	}

	r.pairA, r.pairB = nil, nil
	fmt.Fprintf(r.out, "pair recorded: %s over %s\n", winner.DisplayName(), loser.DisplayName())
	return nil
}

func (r *repl) cmdRank(ctx context.Context) error {
	if len(r.seen) == 0 {
		fmt.Fprintln(r.out, "no candidates seen yet (use 'next' first)")
		return nil
	}

	ranked, err := r.eng.Rank(ctx, r.seen)
	if err != nil {
		return err
	}
	for _, res := range ranked {
		name := res.Name
		if name == "" {
			name = res.EntityID
		}
		fmt.Fprintf(r.out, "%2d. [%3d] %s (%s)\n", res.Rank, res.Score, name, res.EntityID)
	}
	return nil
}

func (r *repl) cmdSimilar(ctx context.Context) error {
	if r.current == nil {
		fmt.Fprintln(r.out, "no current candidate (use 'next' first)")
		return nil
	}

	matches, err := r.eng.SimilarLiked(ctx, r.current, 5)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(r.out, "no liked profiles to compare against")
		return nil
	}
	for _, m := range matches {
		name := m.Name
		if name == "" {
			name = m.EntityID
		}
		fmt.Fprintf(r.out, "%3.0f%% %s (%s)\n", m.Similarity*100, name, m.EntityID)
	}
	return nil
}

func (r *repl) cmdPrefs(ctx context.Context) error {
	prefs, err := r.eng.Preferences(ctx)
	if err != nil {
		return err
	}
	printPreferences(r.out, prefs)
	return nil
}

func (r *repl) cmdStats(ctx context.Context) error {
	st, err := r.eng.Stats(ctx)
	if err != nil {
		return err
	}
	printStats(r.out, st)
	return nil
}

func (r *repl) cmdExport(ctx context.Context, path string) error {
	doc, err := r.eng.Export(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	if path == "" {
		path = defaultExportName(time.Now())
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintf(r.out, "exported %d events and %d pairs to %s\n", len(doc.Events), len(doc.Pairs), path)
	return nil
}

func (r *repl) cmdClear(ctx context.Context) error {
	if err := r.eng.ClearHistory(ctx); err != nil {
		return err
	}
	r.current, r.pairA, r.pairB = nil, nil, nil
	fmt.Fprintln(r.out, "history cleared: preferences, events, pairs, and liked profiles wiped")
	return nil
}

func (r *repl) printHelp() {
	help := []string{
		"next                 pull and score the next candidate",
		"show                 re-print the current candidate in full",
		"like <reason>        record a LIKE for the current candidate",
		"dislike <reason>     record a DISLIKE",
		"save [reason]        shortlist the current candidate",
		"skip                 pass without learning from it",
		"note <text>          attach a note (reinforces positively)",
		"pair                 pull two candidates for an A/B choice",
		"prefer_a <reason>    record that A beats B",
		"prefer_b <reason>    record that B beats A",
		"rank                 re-rank everything seen this session",
		"similar              liked profiles closest to the current candidate",
		"prefs                learned preference weights",
		"stats                session statistics",
		"export [file]        write the training export",
		"clear                wipe all learned history",
		"quit                 leave the session",
	}
	for _, line := range help {
		fmt.Fprintln(r.out, line)
	}
}
