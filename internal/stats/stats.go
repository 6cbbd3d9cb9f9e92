// Package stats rolls match results up into global and per-month
// reconciliation summaries. Every call receives its full input and returns a
// fresh result; nothing is cached between calls.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ofer2300/Financial-M2/internal/common"
	"github.com/ofer2300/Financial-M2/internal/entity"
)

// Overall computes the global summary from the current match records and the
// bank transactions with no match row. A bank transaction matched twice
// contributes two match records; matches, not transactions, are the counted
// and summed unit.
func Overall(matches []entity.MatchRecord, unmatched []entity.BankTransaction) entity.Statistics {
	s := entity.Statistics{
		TotalAmountMatched:   decimal.Zero,
		TotalAmountUnmatched: decimal.Zero,
		MatchesByType:        make(map[string]int),
	}

	total := len(matches) + len(unmatched)
	if total == 0 {
		// defined, not a division error
		return s
	}
	s.MatchRate = float64(len(matches)) / float64(total) * 100

	for _, m := range matches {
		s.TotalAmountMatched = s.TotalAmountMatched.Add(m.BankAmount)
		s.MatchesByType[m.MatchedTable]++
	}
	for _, u := range unmatched {
		s.TotalAmountUnmatched = s.TotalAmountUnmatched.Add(u.Amount)
	}
	return s
}

type period struct {
	year  int
	month int
}

func periodOf(date string) (period, bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return period{}, false
	}
	return period{year: t.Year(), month: int(t.Month())}, true
}

// Monthly partitions bank records and match records by (year, month) and
// emits one MonthlyStat per period present among the bank records, ordered
// year then month. Months with zero bank records are omitted, not
// zero-filled.
//
// UnmatchedAmount is TotalAmount minus MatchedAmount even though the two
// sums range over different record sets; a bank transaction with several
// match records double-counts on the matched side, so the difference can
// come out negative. Preserved source behavior, not corrected here.
func Monthly(bank []entity.BankTransaction, matches []entity.MatchRecord) []entity.MonthlyStat {
	bankByPeriod := make(map[period][]entity.BankTransaction)
	for _, b := range bank {
		p, ok := periodOf(b.Date)
		if !ok {
			continue
		}
		bankByPeriod[p] = append(bankByPeriod[p], b)
	}
	matchesByPeriod := make(map[period][]entity.MatchRecord)
	for _, m := range matches {
		p, ok := periodOf(m.BankDate)
		if !ok {
			continue
		}
		matchesByPeriod[p] = append(matchesByPeriod[p], m)
	}

	periods := make([]period, 0, len(bankByPeriod))
	for p := range bankByPeriod {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool {
		if periods[i].year != periods[j].year {
			return periods[i].year < periods[j].year
		}
		return periods[i].month < periods[j].month
	})

	out := make([]entity.MonthlyStat, 0, len(periods))
	for _, p := range periods {
		monthBank := bankByPeriod[p]
		monthMatches := matchesByPeriod[p]

		totalAmount := decimal.Zero
		for _, b := range monthBank {
			totalAmount = totalAmount.Add(b.Amount)
		}
		matchedAmount := decimal.Zero
		for _, m := range monthMatches {
			matchedAmount = matchedAmount.Add(m.BankAmount)
		}

		out = append(out, entity.MonthlyStat{
			Year:                p.year,
			Month:               p.month,
			MonthName:           time.Month(p.month).String(),
			TotalTransactions:   len(monthBank),
			MatchedTransactions: len(monthMatches),
			MatchRate:           float64(len(monthMatches)) / float64(len(monthBank)) * 100,
			TotalAmount:         totalAmount,
			MatchedAmount:       matchedAmount,
			UnmatchedAmount:     totalAmount.Sub(matchedAmount),
		})
	}
	return out
}

// ForPeriod selects the monthly statistic whose (year, month) equals the
// reference date. Absence of the period is common.ErrNoDataForPeriod, which
// callers must handle rather than assume the month exists.
func ForPeriod(monthly []entity.MonthlyStat, ref time.Time) (entity.MonthlyStat, error) {
	for _, m := range monthly {
		if m.Year == ref.Year() && m.Month == int(ref.Month()) {
			return m, nil
		}
	}
	return entity.MonthlyStat{}, fmt.Errorf("%04d-%02d: %w", ref.Year(), int(ref.Month()), common.ErrNoDataForPeriod)
}
