package entity

import "github.com/shopspring/decimal"

// Statistics is the global reconciliation summary.
type Statistics struct {
	MatchRate            float64         `json:"match_rate"`
	TotalAmountMatched   decimal.Decimal `json:"total_amount_matched"`
	TotalAmountUnmatched decimal.Decimal `json:"total_amount_unmatched"`
	MatchesByType        map[string]int  `json:"matches_by_type"`
}

// MonthlyStat is the reconciliation summary for one calendar month.
// Recomputed on every aggregation pass, never mutated in place.
type MonthlyStat struct {
	Year                int             `json:"year"`
	Month               int             `json:"month"`
	MonthName           string          `json:"month_name"`
	TotalTransactions   int             `json:"total_transactions"`
	MatchedTransactions int             `json:"matched_transactions"`
	MatchRate           float64         `json:"match_rate"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	MatchedAmount       decimal.Decimal `json:"matched_amount"`
	UnmatchedAmount     decimal.Decimal `json:"unmatched_amount"`
}
