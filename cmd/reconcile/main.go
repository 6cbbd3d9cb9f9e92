package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ofer2300/Financial-M2/internal/common"
	"github.com/ofer2300/Financial-M2/internal/doctext"
	"github.com/ofer2300/Financial-M2/internal/export"
	"github.com/ofer2300/Financial-M2/internal/repository"
	"github.com/ofer2300/Financial-M2/internal/service"
	"github.com/ofer2300/Financial-M2/internal/tabular"
)

func main() {
	var (
		dir = flag.String("dir", "", "drop directory with spreadsheet exports and claim documents (required)")
		out = flag.String("out", "", "monthly report XLSX path (optional, defaults to EXPORT_PATH)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *dir != "" {
		cfg.Ingest.Dir = *dir
	}
	if *out != "" {
		cfg.Export.OutPath = *out
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := repository.NewStore(pool, cfg.Database.InsertBatchSize, logger)
	matcher := service.New(store, tabular.NewReader(logger), doctext.New(cfg.OCR, logger), logger)

	summary, err := matcher.LoadDirectory(ctx, cfg.Ingest.Dir, cfg.Ingest.SkipHidden)
	if err != nil {
		logger.Error("loading drop directory", "dir", cfg.Ingest.Dir, "error", err)
		os.Exit(1)
	}
	logger.Info("ingest complete",
		"scanned", summary.Scanned,
		"loaded", summary.Loaded,
		"persisted", summary.Persisted,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)

	matches, err := matcher.ProcessMatches(ctx)
	if err != nil {
		logger.Error("running matching", "error", err)
		os.Exit(1)
	}
	logger.Info("matching complete", "matches", len(matches))

	overall, err := matcher.OverallStatistics(ctx)
	if err != nil {
		logger.Error("computing statistics", "error", err)
		os.Exit(1)
	}
	logger.Info("overall statistics",
		"match_rate", overall.MatchRate,
		"amount_matched", overall.TotalAmountMatched.StringFixed(2),
		"amount_unmatched", overall.TotalAmountUnmatched.StringFixed(2),
		"by_type", overall.MatchesByType,
	)

	current, err := matcher.CurrentMonth(ctx)
	switch {
	case errors.Is(err, common.ErrNoDataForPeriod):
		logger.Info("no bank records for the current month")
	case err != nil:
		logger.Error("computing current month", "error", err)
		os.Exit(1)
	default:
		logger.Info("current month",
			"month", current.MonthName,
			"transactions", current.TotalTransactions,
			"matched", current.MatchedTransactions,
			"match_rate", current.MatchRate,
			"unmatched_amount", current.UnmatchedAmount.StringFixed(2),
		)
	}

	report, err := export.NewService(store, logger).MonthlyReportXLSX(ctx)
	if err != nil {
		logger.Error("rendering monthly report", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(cfg.Export.OutPath, report, 0o644); err != nil {
		logger.Error("writing monthly report", "path", cfg.Export.OutPath, "error", err)
		os.Exit(1)
	}
	logger.Info("monthly report written", "path", cfg.Export.OutPath)
}
