package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/Kinetic-Blast/SQL-Import/internal/catalog"
	"github.com/Kinetic-Blast/SQL-Import/internal/config"
	"github.com/Kinetic-Blast/SQL-Import/internal/ingest"
	"github.com/Kinetic-Blast/SQL-Import/internal/logging"
	"github.com/Kinetic-Blast/SQL-Import/internal/notify"
	"github.com/Kinetic-Blast/SQL-Import/internal/runlog"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	defs, err := config.LoadDefinitions(cfg.Import.DefinitionsFile)
	if err != nil {
		slog.Error("failed to load import definitions", "error", err)
		os.Exit(1)
	}
	slog.Info("import definitions loaded", "count", len(defs))

	ctx := context.Background()
	if cfg.Import.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Import.RunTimeout)
		defer cancel()
	}

	catalogs, cleanup, err := buildCatalogs(ctx, cfg, defs)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	notifier, err := notify.NewSMTP(notify.SMTPOptions{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		From:     cfg.Mail.From,
		To:       cfg.Mail.To,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
	})
	if err != nil {
		slog.Error("failed to configure notifier", "error", err)
		os.Exit(1)
	}

	events := runlog.New()
	runner := ingest.NewRunner(catalogs, ingest.OSFileSource(), cfg.Import.MaxAge, events)

	report := runner.Run(ctx, defs)
	rendered := ingest.BuildReport(report, events.Events())

	// Delivery failure is the one error with no fallback channel to
	// report through, so it decides the exit code.
	if err := notifier.Send(ctx, rendered); err != nil {
		slog.Error("failed to deliver report", "run_id", report.RunID, "error", err)
		os.Exit(1)
	}

	succeeded, failed := report.Counts()
	slog.Info("run finished", "run_id", report.RunID, "succeeded", succeeded, "failed", failed)
}

// buildCatalogs opens one connection pool per distinct database named in
// the definitions, swapping the database path on the configured URL, and
// routes them behind a catalog.Set.
func buildCatalogs(ctx context.Context, cfg *config.Config, defs []ingest.Definition) (catalog.Set, func(), error) {
	set := catalog.Set{}
	var pools []*pgxpool.Pool
	cleanup := func() {
		for _, p := range pools {
			p.Close()
		}
	}

	for _, def := range defs {
		if _, ok := set[def.Database]; ok {
			continue
		}

		dbURL, err := urlForDatabase(cfg.Database.URL, def.Database)
		if err != nil {
			cleanup()
			return nil, nil, err
		}

		poolCfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxConns)
		poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		pools = append(pools, pool)

		if err := pool.Ping(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}

		set[def.Database] = catalog.NewPostgres(pool, def.Database, cfg.Database.Schema)
		slog.Info("connected to database", "name", def.Database)
	}
	return set, cleanup, nil
}

// urlForDatabase points the configured connection URL at a specific
// database.
func urlForDatabase(base, database string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.Path = "/" + database
	return u.String(), nil
}
