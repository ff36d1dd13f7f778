package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/engine"
	"roulette-signal-lab/internal/ingestion"
	"roulette-signal-lab/internal/neighborhood"
	"roulette-signal-lab/internal/observability"
	"roulette-signal-lab/internal/scoring"
	"roulette-signal-lab/internal/storage"
	chstore "roulette-signal-lab/internal/storage/clickhouse"
	"roulette-signal-lab/internal/storage/memory"
	"roulette-signal-lab/internal/storage/migrations"
	pgstore "roulette-signal-lab/internal/storage/postgres"
)

func main() {
	wsEndpoint := flag.String("ws-endpoint", "", "Spin feed WebSocket endpoint")
	table := flag.String("table", "", "Table to follow (empty accepts every table)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for snapshot archiving")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	lookback := flag.Int("lookback", 200, "History window fetched per spin")
	radius := flag.Int("radius", neighborhood.DefaultRadius, "Neighborhood radius in pockets")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	pretty := flag.Bool("pretty", true, "Human-readable log output")
	flag.Parse()

	if *pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
	logger := log.With().Str("component", "live").Logger()

	if *wsEndpoint == "" {
		logger.Fatal().Msg("--ws-endpoint is required")
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal().Msg("--postgres-dsn is required unless --use-memory is set")
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Info().Str("addr", *metricsAddr).Msg("metrics server listening")
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	if err := run(ctx, logger, *wsEndpoint, *table, *postgresDSN, *clickhouseDSN, *useMemory, *lookback, *radius); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("live run failed")
	}
}

func run(ctx context.Context, logger zerolog.Logger, wsEndpoint, table, postgresDSN, clickhouseDSN string, useMemory bool, lookback, radius int) error {
	outcomeStore, snapshotStore, cleanup, err := buildStores(ctx, logger, postgresDSN, clickhouseDSN, useMemory)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := scoring.Config{Neighborhood: neighborhood.DefaultConfig()}
	cfg.Neighborhood.Radius = radius

	eval := engine.New(engine.Options{
		Scoring:       cfg,
		SnapshotStore: snapshotStore,
	})

	mgr := ingestion.NewManager(ingestion.ManagerOptions{
		Source:   ingestion.NewWSSource(wsEndpoint, table, nil),
		Store:    outcomeStore,
		Lookback: lookback,
		Handler: func(ctx context.Context, o *domain.Outcome, history domain.History) error {
			ev, err := eval.Evaluate(ctx, o, history)
			if err != nil {
				return err
			}
			logSpin(logger, o, ev)
			return nil
		},
	})

	logger.Info().Str("endpoint", wsEndpoint).Msg("following live feed")
	accepted, err := mgr.Run(ctx)
	logger.Info().Int("accepted", accepted).Msg("feed closed")
	return err
}

// buildStores wires outcome and snapshot storage per the flags. The cleanup
// closes whatever connections were opened.
func buildStores(ctx context.Context, logger zerolog.Logger, postgresDSN, clickhouseDSN string, useMemory bool) (storage.OutcomeStore, storage.SnapshotStore, func(), error) {
	if useMemory {
		return memory.NewOutcomeStore(), memory.NewSnapshotStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	var snapshotStore storage.SnapshotStore = memory.NewSnapshotStore()
	cleanup := func() { pool.Close() }

	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		snapshotStore = chstore.NewSnapshotStore(conn)
		cleanup = func() {
			conn.Close()
			pool.Close()
		}
	} else {
		logger.Warn().Msg("no clickhouse dsn, archiving snapshots in memory")
	}

	return pgstore.NewOutcomeStore(pool), snapshotStore, cleanup, nil
}

// logSpin emits one structured line per accepted spin, plus one per alert.
func logSpin(logger zerolog.Logger, o *domain.Outcome, ev *engine.Evaluation) {
	event := logger.Info().
		Str("spin_id", o.SpinID).
		Int("number", o.Number).
		Float64("assertiveness", ev.Report.Assertiveness).
		Str("sector_status", string(ev.Sector.Status))
	if sig := ev.Report.Signal; sig != nil {
		event = event.
			Int("convergence", sig.ConvergenceCount).
			Float64("confidence", sig.Confidence).
			Ints("numbers", sig.Numbers)
	}
	event.Msg("spin evaluated")

	for _, a := range ev.Alerts {
		logger.Info().
			Str("kind", string(a.Kind)).
			Str("severity", string(a.Severity)).
			Ints("numbers", a.Numbers).
			Msg(a.Message)
	}
}
