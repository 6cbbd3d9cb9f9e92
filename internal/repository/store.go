// Package repository is the storage and matching collaborator: it persists
// canonical records, triggers the server-side matching procedure and reads
// its results back. The matching decision itself lives in the database; this
// side treats it purely as input/output data.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ofer2300/Financial-M2/internal/entity"
)

// Store is the behavior the service layer depends on.
type Store interface {
	InsertRecords(ctx context.Context, records []entity.Record) (int, error)
	RunMatching(ctx context.Context) error
	MatchDetails(ctx context.Context) ([]entity.MatchRecord, error)
	ListBankTransactions(ctx context.Context) ([]entity.BankTransaction, error)
	ListUnmatched(ctx context.Context) ([]entity.BankTransaction, error)
}

type pgStore struct {
	pool      *pgxpool.Pool
	batchSize int
	logger    *slog.Logger
}

func NewStore(pool *pgxpool.Pool, batchSize int, logger *slog.Logger) Store {
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &pgStore{pool: pool, batchSize: batchSize, logger: logger}
}

// InsertRecords persists records in chunks of batchSize rows per round trip,
// each chunk as one pgx batch. Returns the number of rows written.
func (s *pgStore) InsertRecords(ctx context.Context, records []entity.Record) (int, error) {
	inserted := 0
	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}

		b := &pgx.Batch{}
		for _, rec := range records[start:end] {
			sql, args, err := insertStatement(rec)
			if err != nil {
				return inserted, err
			}
			b.Queue(sql, args...)
		}

		br := s.pool.SendBatch(ctx, b)
		for i := start; i < end; i++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				s.logger.Error("batch insert failed", "table", records[i].Kind().TableName(), "error", err)
				return inserted, fmt.Errorf("insert into %s: %w", records[i].Kind().TableName(), err)
			}
			inserted++
		}
		if err := br.Close(); err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}

func insertStatement(rec entity.Record) (string, []any, error) {
	switch r := rec.(type) {
	case *entity.BankTransaction:
		return `INSERT INTO bank_transactions (amount, date, description) VALUES ($1, $2, $3)`,
			[]any{r.Amount, r.Date, r.Description}, nil
	case *entity.Check:
		return `INSERT INTO checks (amount, date, description, check_number, payer_name) VALUES ($1, $2, $3, $4, $5)`,
			[]any{r.Amount, r.Date, r.Description, r.CheckNumber, r.PayerName}, nil
	case *entity.Transfer:
		return `INSERT INTO bank_transfers (amount, date, description, reference_number) VALUES ($1, $2, $3, $4)`,
			[]any{r.Amount, r.Date, r.Description, r.ReferenceNumber}, nil
	case *entity.Invoice:
		return `INSERT INTO invoices (amount, date, invoice_number, status) VALUES ($1, $2, $3, $4)`,
			[]any{r.Amount, r.Date, r.InvoiceNumber, r.Status}, nil
	case *entity.Receipt:
		return `INSERT INTO receipts (amount, date, receipt_number, status) VALUES ($1, $2, $3, $4)`,
			[]any{r.Amount, r.Date, r.ReceiptNumber, r.Status}, nil
	default:
		return "", nil, fmt.Errorf("unknown record type %T", rec)
	}
}
