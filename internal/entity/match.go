package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchRecord is one externally computed association between a bank
// transaction and a claim document. Produced by the matching stored
// procedure; this side only reads it. A bank transaction may appear in more
// than one match record.
type MatchRecord struct {
	BankTransactionID uuid.UUID       `json:"bank_transaction_id"`
	BankDate          string          `json:"bank_date"`
	BankAmount        decimal.Decimal `json:"bank_amount"`
	BankDescription   string          `json:"bank_description"`
	MatchedTable      string          `json:"matched_table"`
	MatchedDate       string          `json:"matched_date"`
	MatchedAmount     decimal.Decimal `json:"matched_amount"`
	MatchedReference  string          `json:"matched_reference"`
}
