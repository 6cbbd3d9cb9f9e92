// Package extract derives structured candidate fields from the free text of
// one scanned or digital claim document. It never reads files or runs OCR
// itself; it consumes text produced by the doctext collaborator and returns
// a best-effort partial result, never an error for malformed input.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ofer2300/Financial-M2/constants"
	"github.com/ofer2300/Financial-M2/internal/common"
	"github.com/ofer2300/Financial-M2/internal/entity"
	"github.com/ofer2300/Financial-M2/internal/normalize"
)

var (
	// Numeric day/month/year with . or / separators. The match is not
	// checked for calendar validity; day 32 passes. Known limitation.
	reDate = regexp.MustCompile(`\d{1,2}[./]\d{1,2}[./]\d{2,4}`)

	// Optional shekel marker, digits with optional thousands separators,
	// optional fractional part. First match wins, so a date or document
	// number appearing earlier in the text can shadow the amount; source
	// documents put the amount line first.
	reAmount = regexp.MustCompile(`₪?\s*[\d,]+\.?\d*`)

	// Document-number labels, Hebrew or English, optionally followed by a
	// colon or hash, then the digit run to capture.
	reInvoiceRef = regexp.MustCompile(`(?i)(?:חשבונית\s*מס[׳']?|invoice\s*(?:number|no\.?)?)\s*[#:]*\s*(\d+)`)
	reReceiptRef = regexp.MustCompile(`(?i)(?:קבלה\s*מס[׳']?|receipt\s*(?:number|no\.?)?)\s*[#:]*\s*(\d+)`)
)

// Result holds the candidate fields found in one document's text. Date is
// the raw matched substring, not yet normalized. Any subset of fields may be
// present; an incomplete result is a valid return value, not an error.
type Result struct {
	Date      string
	Amount    decimal.Decimal
	Reference string

	HasDate      bool
	HasAmount    bool
	HasReference bool
}

// Complete reports whether all three fields were found. Only complete
// results are persisted upstream.
func (r Result) Complete() bool {
	return r.HasDate && r.HasAmount && r.HasReference
}

// FromText locates a date, an amount and a kind-specific document number in
// text. The three searches are independent: failure to find one field does
// not short-circuit the others. Only invoice and receipt kinds are valid;
// anything else fails with common.ErrUnsupportedDocType.
func FromText(text string, kind constants.DocType) (Result, error) {
	var reRef *regexp.Regexp
	switch kind {
	case constants.DocTypeInvoice:
		reRef = reInvoiceRef
	case constants.DocTypeReceipt:
		reRef = reReceiptRef
	default:
		return Result{}, fmt.Errorf("%q: %w", kind, common.ErrUnsupportedDocType)
	}

	var r Result
	if m := reDate.FindString(text); m != "" {
		r.Date = m
		r.HasDate = true
	}
	if m := reAmount.FindString(text); m != "" {
		cleaned := strings.TrimSpace(strings.NewReplacer("₪", "", ",", "").Replace(m))
		if d, err := decimal.NewFromString(cleaned); err == nil {
			r.Amount = d.Round(2)
			r.HasAmount = true
		}
	}
	if m := reRef.FindStringSubmatch(text); m != nil {
		r.Reference = m[1]
		r.HasReference = true
	}
	return r, nil
}

// Record builds the canonical claim record for a complete result. The raw
// matched date goes through the normalizer here; a date string the
// normalizer cannot read leaves the record unbuildable and the extraction is
// treated as incomplete for persistence.
func (r Result) Record(kind constants.DocType) (entity.Record, bool) {
	if !r.Complete() {
		return nil, false
	}
	date, ok := normalize.Date(r.Date)
	if !ok {
		return nil, false
	}
	ref := r.Reference
	switch kind {
	case constants.DocTypeInvoice:
		return &entity.Invoice{Amount: r.Amount, Date: date, InvoiceNumber: &ref}, true
	case constants.DocTypeReceipt:
		return &entity.Receipt{Amount: r.Amount, Date: date, ReceiptNumber: &ref}, true
	default:
		return nil, false
	}
}
