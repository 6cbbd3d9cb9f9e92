package repository

import (
	"context"
	"fmt"

	"github.com/ofer2300/Financial-M2/internal/entity"
)

const listBankSQL = `
SELECT id, amount, date::text, description
FROM bank_transactions
ORDER BY date, id`

// listUnmatchedSQL selects bank transactions with no match row at all.
const listUnmatchedSQL = `
SELECT bt.id, bt.amount, bt.date::text, bt.description
FROM bank_transactions bt
LEFT JOIN transaction_matches tm ON bt.id = tm.bank_transaction_id
WHERE tm.id IS NULL
ORDER BY bt.date, bt.id`

func (s *pgStore) ListBankTransactions(ctx context.Context) ([]entity.BankTransaction, error) {
	return s.queryBank(ctx, listBankSQL)
}

func (s *pgStore) ListUnmatched(ctx context.Context) ([]entity.BankTransaction, error) {
	return s.queryBank(ctx, listUnmatchedSQL)
}

func (s *pgStore) queryBank(ctx context.Context, sql string) ([]entity.BankTransaction, error) {
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		s.logger.Error("bank transaction query failed", "error", err)
		return nil, fmt.Errorf("query bank transactions: %w", err)
	}
	defer rows.Close()

	var out []entity.BankTransaction
	for rows.Next() {
		var tx entity.BankTransaction
		if err := rows.Scan(&tx.ID, &tx.Amount, &tx.Date, &tx.Description); err != nil {
			return nil, fmt.Errorf("scan bank transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
