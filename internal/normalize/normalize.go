// Package normalize turns raw scalar values from heterogeneous sources into
// canonical amounts, dates and text. All functions are pure and total: bad
// data yields (zero, false), never a panic or an error.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// reAmountNoise strips everything that is not a digit, decimal point or
// minus sign before parsing.
var reAmountNoise = regexp.MustCompile(`[^\d.-]`)

var reWhitespace = regexp.MustCompile(`\s+`)

// Amount converts a raw scalar into a decimal rounded to 2 places.
// Strings are cleaned of currency markers, thousands separators and any
// other noise first; numeric inputs are rounded directly. Returns ok=false
// for missing or unparsable input.
func Amount(raw any) (decimal.Decimal, bool) {
	if raw == nil {
		return decimal.Decimal{}, false
	}
	switch v := raw.(type) {
	case string:
		cleaned := reAmountNoise.ReplaceAllString(v, "")
		if cleaned == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d.Round(2), true
	case decimal.Decimal:
		return v.Round(2), true
	case float64:
		return decimal.NewFromFloat(v).Round(2), true
	case float32:
		return decimal.NewFromFloat32(v).Round(2), true
	case int:
		return decimal.NewFromInt(int64(v)).Round(2), true
	case int64:
		return decimal.NewFromInt(v).Round(2), true
	default:
		return decimal.Decimal{}, false
	}
}

// dateLayouts is tried in order. ISO forms first, then day-first forms with
// the separators seen in the source exports, then month-first as a fallback
// for values the day-first layouts reject (e.g. 01/31/2024). Non-padded
// layout digits accept both "3" and "03".
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2.1.06",
	"1/2/2006",
	"1-2-2006",
	"1.2.2006",
	"2006-1-2 15:04:05",
	time.RFC3339,
}

// Date converts a raw scalar into a YYYY-MM-DD string. time.Time values are
// formatted directly; strings are parsed against dateLayouts, resolving
// ambiguous day/month orderings day-first per the source locale. Returns
// ok=false for missing, unparsable or non-date input. Idempotent on its own
// output.
func Date(raw any) (string, bool) {
	if raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return v.Format("2006-01-02"), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
		return "", false
	default:
		return "", false
	}
}

// Text converts a raw scalar into a trimmed string with inner whitespace
// runs collapsed to a single space. Returns ok=false for missing input or
// when nothing is left after trimming; never returns an empty string with
// ok=true.
func Text(raw any) (string, bool) {
	if raw == nil {
		return "", false
	}
	s, isStr := raw.(string)
	if !isStr {
		s = fmt.Sprint(raw)
	}
	s = strings.TrimSpace(s)
	s = reWhitespace.ReplaceAllString(s, " ")
	if s == "" {
		return "", false
	}
	return s, true
}
