package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"roulette-signal-lab/internal/backtest"
	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/engine"
	"roulette-signal-lab/internal/ingestion"
	"roulette-signal-lab/internal/neighborhood"
	"roulette-signal-lab/internal/scoring"
	"roulette-signal-lab/internal/storage/memory"
)

func main() {
	numbersFile := flag.String("numbers-file", "", "File of spin numbers, one per line (# starts a comment)")
	table := flag.String("table", "replay", "Table id stamped on replayed spins")
	radius := flag.Int("radius", neighborhood.DefaultRadius, "Neighborhood radius in pockets")
	runBacktest := flag.Bool("backtest", false, "Measure entry-signal hit rate over the feed")
	verbose := flag.Bool("verbose", false, "Log every evaluated spin")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	logger := log.With().Str("component", "replay").Logger()

	if *numbersFile == "" {
		logger.Fatal().Msg("--numbers-file is required")
	}

	numbers, err := readNumbers(*numbersFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("reading numbers file")
	}
	if len(numbers) == 0 {
		logger.Fatal().Msg("numbers file is empty")
	}

	ctx := context.Background()

	cfg := scoring.Config{Neighborhood: neighborhood.DefaultConfig()}
	cfg.Neighborhood.Radius = *radius

	snapshots := memory.NewSnapshotStore()
	eval := engine.New(engine.Options{Scoring: cfg, SnapshotStore: snapshots})
	outcomes := memory.NewOutcomeStore()

	var last *engine.Evaluation
	mgr := ingestion.NewManager(ingestion.ManagerOptions{
		Source: &ingestion.StubSource{
			Table:   *table,
			Numbers: numbers,
			StartMs: time.Now().UnixMilli(),
			StepMs:  1,
		},
		Store: outcomes,
		Handler: func(ctx context.Context, o *domain.Outcome, history domain.History) error {
			ev, err := eval.Evaluate(ctx, o, history)
			if err != nil {
				return err
			}
			last = ev
			if *verbose {
				logger.Info().
					Int("number", o.Number).
					Float64("assertiveness", ev.Report.Assertiveness).
					Int("alerts", len(ev.Alerts)).
					Msg("spin evaluated")
			}
			return nil
		},
	})

	accepted, err := mgr.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("replay failed")
	}

	printSummary(accepted, last, eval)

	if *runBacktest {
		history, err := outcomes.GetRecent(ctx, *table, 0)
		if err != nil {
			logger.Fatal().Err(err).Msg("loading history for backtest")
		}
		printBacktest(backtest.Run(history, cfg))
	}
}

func printBacktest(res backtest.Results) {
	fmt.Printf("\n=== Backtest ===\n")
	fmt.Printf("Evaluations: %d\n", res.Evaluations)
	fmt.Printf("Signals resolved: %d (unresolved %d)\n", res.Signals, res.Unresolved)
	if res.Signals == 0 {
		fmt.Println("No signals to score.")
		return
	}
	fmt.Printf("Hits: %d (%.1f%%)\n", res.Hits, res.HitRate)
	fmt.Printf("Fair-wheel baseline: %.1f%%\n", res.BaselineRate)
	fmt.Printf("Edge: %+.1f points\n", res.Edge())
}

// readNumbers parses one spin number per line; blank lines and #-comments
// are skipped.
func readNumbers(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var numbers []int
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !domain.ValidNumber(n) {
			return nil, fmt.Errorf("line %d: number %d out of range", line, n)
		}
		numbers = append(numbers, n)
	}
	return numbers, scanner.Err()
}

func printSummary(accepted int, last *engine.Evaluation, eval *engine.Evaluator) {
	fmt.Printf("\n=== Replay Summary ===\n")
	fmt.Printf("Spins evaluated: %d\n", accepted)

	if last == nil {
		fmt.Println("No evaluations ran.")
		return
	}

	fmt.Printf("\nStrategies:\n")
	if len(last.Report.Strategies) == 0 {
		fmt.Printf("  (history below %d spins, aggregation idle)\n", scoring.MinHistory)
	}
	for _, s := range last.Report.Strategies {
		fmt.Printf("  %-18s %6.1f  %s\n", s.Analyzer, s.Score, s.Status)
	}
	fmt.Printf("Assertiveness: %.1f\n", last.Report.Assertiveness)

	if sig := last.Report.Signal; sig != nil {
		fmt.Printf("\nEntry signal: %d strategies converged (confidence %.1f)\n",
			sig.ConvergenceCount, sig.Confidence)
		fmt.Printf("  Numbers: %v\n", sig.Numbers)
		fmt.Printf("  Reasons: %s\n", strings.Join(sig.Reasons, ", "))
	} else {
		fmt.Printf("\nNo entry signal on final spin.\n")
	}

	fmt.Printf("\nDealer signature: %s", last.Sector.Status)
	if last.Sector.Best != nil {
		fmt.Printf(" (sector %s, precision %.0f)", last.Sector.Best.Sector.ID, last.Sector.Best.Precision)
	}
	fmt.Println()

	if len(last.Neighborhoods) > 0 {
		fmt.Printf("\nTop neighborhoods:\n")
		for i, p := range last.Neighborhoods {
			if i == 3 {
				break
			}
			fmt.Printf("  center %2d  lift %+6.1f  %s/%s\n", p.Center, p.Lift, p.Status, p.Momentum)
		}
	}

	history := eval.Center().History()
	visible := eval.Center().Visible(time.Now())
	fmt.Printf("\nAlerts: %d visible, %d archived\n", len(visible), len(history))
	for _, a := range visible {
		fmt.Printf("  [%s] %s\n", a.Kind, a.Message)
	}
}
