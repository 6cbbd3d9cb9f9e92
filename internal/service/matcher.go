// Package service wires the pipeline together: tabular files and scanned
// documents in, canonical records to storage, match statistics out. All
// collaborators are injected at construction; nothing here holds global
// state or caches between calls.
package service

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ofer2300/Financial-M2/constants"
	"github.com/ofer2300/Financial-M2/internal/adapter"
	"github.com/ofer2300/Financial-M2/internal/doctext"
	"github.com/ofer2300/Financial-M2/internal/entity"
	"github.com/ofer2300/Financial-M2/internal/extract"
	"github.com/ofer2300/Financial-M2/internal/repository"
	"github.com/ofer2300/Financial-M2/internal/stats"
	"github.com/ofer2300/Financial-M2/internal/tabular"
)

type Matcher struct {
	store  repository.Store
	reader *tabular.Reader
	docs   doctext.TextExtractor
	logger *slog.Logger
	now    func() time.Time
}

func New(store repository.Store, reader *tabular.Reader, docs doctext.TextExtractor, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		store:  store,
		reader: reader,
		docs:   docs,
		logger: logger,
		now:    time.Now,
	}
}

// LoadResult summarizes one tabular load.
type LoadResult struct {
	Rows     int
	Retained int
	Dropped  int
	Inserted int
}

// LoadTabular reads one spreadsheet export, adapts its rows to the declared
// kind and persists the retained records.
func (m *Matcher) LoadTabular(ctx context.Context, path string, kind constants.DocType) (LoadResult, error) {
	rows, err := m.reader.ReadFile(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("read %s: %w", path, err)
	}

	records, astats, err := adapter.Adapt(kind, rows)
	if err != nil {
		return LoadResult{}, err
	}

	inserted, err := m.store.InsertRecords(ctx, records)
	result := LoadResult{Rows: astats.Rows, Retained: astats.Retained, Dropped: astats.Dropped, Inserted: inserted}
	if err != nil {
		return result, fmt.Errorf("persist %s records: %w", kind, err)
	}

	m.logger.Info("tabular file loaded",
		"path", path,
		"kind", string(kind),
		"rows", astats.Rows,
		"dropped", astats.Dropped,
		"inserted", inserted,
	)
	return result, nil
}

// ProcessDocument extracts candidate fields from one claim document and
// persists the record when the extraction is complete. An incomplete
// extraction is not an error; it is reported through the returned result and
// the persisted flag.
func (m *Matcher) ProcessDocument(ctx context.Context, path string, kind constants.DocType) (extract.Result, bool, error) {
	text, err := m.docs.ExtractText(ctx, path)
	if err != nil {
		return extract.Result{}, false, fmt.Errorf("extract text from %s: %w", path, err)
	}

	result, err := extract.FromText(text, kind)
	if err != nil {
		return extract.Result{}, false, err
	}

	rec, ok := result.Record(kind)
	if !ok {
		m.logger.Warn("incomplete extraction, not persisted",
			"path", path,
			"kind", string(kind),
			"has_date", result.HasDate,
			"has_amount", result.HasAmount,
			"has_reference", result.HasReference,
		)
		return result, false, nil
	}

	if _, err := m.store.InsertRecords(ctx, []entity.Record{rec}); err != nil {
		return result, false, fmt.Errorf("persist %s document: %w", kind, err)
	}
	m.logger.Info("document processed", "path", path, "kind", string(kind))
	return result, true, nil
}

// DirSummary aggregates a LoadDirectory pass.
type DirSummary struct {
	Scanned   int
	Loaded    int
	Persisted int
	Skipped   int
	Failed    int
}

// LoadDirectory walks a drop directory and routes every recognized file:
// spreadsheets to the tabular pipeline, documents to text extraction. The
// document kind is inferred from the file name. Per-file failures are
// logged and counted, not fatal.
func (m *Matcher) LoadDirectory(ctx context.Context, root string, skipHidden bool) (DirSummary, error) {
	var summary DirSummary
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			summary.Failed++
			m.logger.Warn("walk error", "path", path, "error", walkErr)
			return nil
		}
		if skipHidden && strings.HasPrefix(filepath.Base(path), ".") {
			if d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		summary.Scanned++

		ext := constants.NormalizeExt(filepath.Ext(path))
		kind := kindFromFilename(filepath.Base(path), ext)

		switch {
		case isTabular(ext):
			if _, err := m.LoadTabular(ctx, path, kind); err != nil {
				summary.Failed++
				m.logger.Warn("tabular load failed", "path", path, "error", err)
				return nil
			}
			summary.Loaded++
		case isDocument(ext):
			_, persisted, err := m.ProcessDocument(ctx, path, kind)
			if err != nil {
				summary.Failed++
				m.logger.Warn("document processing failed", "path", path, "error", err)
				return nil
			}
			summary.Loaded++
			if persisted {
				summary.Persisted++
			}
		default:
			summary.Skipped++
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("walk %s: %w", root, err)
	}
	return summary, nil
}

func isTabular(ext string) bool {
	_, ok := constants.TabularExtensions[ext]
	return ok
}

func isDocument(ext string) bool {
	_, ok := constants.DocumentExtensions[ext]
	return ok
}

// kindFromFilename infers the document kind the way the upload flow named
// its files: Hebrew or English keywords, defaulting to bank transactions for
// spreadsheets and receipts for documents.
func kindFromFilename(name, ext string) constants.DocType {
	lower := strings.ToLower(name)
	if isTabular(ext) {
		switch {
		case strings.Contains(lower, "שיק") || strings.Contains(lower, "check"):
			return constants.DocTypeChecks
		case strings.Contains(lower, "העבר") || strings.Contains(lower, "transfer"):
			return constants.DocTypeTransfer
		default:
			return constants.DocTypeBank
		}
	}
	if strings.Contains(lower, "חשבונית") || strings.Contains(lower, "invoice") {
		return constants.DocTypeInvoice
	}
	return constants.DocTypeReceipt
}

// ProcessMatches triggers the matching procedure and returns the resulting
// match set.
func (m *Matcher) ProcessMatches(ctx context.Context) ([]entity.MatchRecord, error) {
	if err := m.store.RunMatching(ctx); err != nil {
		return nil, err
	}
	return m.store.MatchDetails(ctx)
}

// OverallStatistics computes the global reconciliation summary.
func (m *Matcher) OverallStatistics(ctx context.Context) (entity.Statistics, error) {
	matches, err := m.store.MatchDetails(ctx)
	if err != nil {
		return entity.Statistics{}, err
	}
	unmatched, err := m.store.ListUnmatched(ctx)
	if err != nil {
		return entity.Statistics{}, err
	}
	return stats.Overall(matches, unmatched), nil
}

// MonthlyStatistics computes the per-month rollup over all bank records.
func (m *Matcher) MonthlyStatistics(ctx context.Context) ([]entity.MonthlyStat, error) {
	bank, err := m.store.ListBankTransactions(ctx)
	if err != nil {
		return nil, err
	}
	matches, err := m.store.MatchDetails(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Monthly(bank, matches), nil
}

// CurrentMonth returns the rollup entry for the present calendar month.
// common.ErrNoDataForPeriod when this month has no bank records.
func (m *Matcher) CurrentMonth(ctx context.Context) (entity.MonthlyStat, error) {
	monthly, err := m.MonthlyStatistics(ctx)
	if err != nil {
		return entity.MonthlyStat{}, err
	}
	return stats.ForPeriod(monthly, m.now())
}
