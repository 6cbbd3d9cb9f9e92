// Package adapter maps raw tabular records with bilingual column names onto
// the canonical document-type schemas, discarding structurally invalid rows.
package adapter

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ofer2300/Financial-M2/constants"
	"github.com/ofer2300/Financial-M2/internal/common"
	"github.com/ofer2300/Financial-M2/internal/entity"
	"github.com/ofer2300/Financial-M2/internal/normalize"
)

// Stats counts the outcome of one Adapt call. Dropped rows are not errors;
// the counter exists so callers can report them.
type Stats struct {
	Rows     int
	Retained int
	Dropped  int
}

// Adapt converts raw rows into canonical records of the requested kind.
// Rows lacking a usable amount or date after normalization are dropped;
// relative order of retained rows is preserved. An unrecognized kind fails
// with common.ErrUnsupportedDocType.
func Adapt(kind constants.DocType, rows []RawRecord) ([]entity.Record, Stats, error) {
	var build func(RawRecord) (entity.Record, bool)
	switch kind {
	case constants.DocTypeBank:
		build = buildBank
	case constants.DocTypeChecks:
		build = buildCheck
	case constants.DocTypeTransfer:
		build = buildTransfer
	case constants.DocTypeInvoice:
		build = buildInvoice
	case constants.DocTypeReceipt:
		build = buildReceipt
	default:
		return nil, Stats{}, fmt.Errorf("%q: %w", kind, common.ErrUnsupportedDocType)
	}

	records := make([]entity.Record, 0, len(rows))
	stats := Stats{Rows: len(rows)}
	for _, row := range rows {
		rec, ok := build(row)
		if !ok {
			stats.Dropped++
			continue
		}
		records = append(records, rec)
	}
	stats.Retained = len(records)
	return records, stats, nil
}

// base is the normalization step shared by every document kind: the two
// required fields. Kind-specific builders extend it by composition.
type base struct {
	amount decimal.Decimal
	date   string
}

func normalizeBase(row RawRecord) (base, bool) {
	amount, okAmount := normalize.Amount(resolve(row, amountColumns))
	date, okDate := normalize.Date(resolve(row, dateColumns))
	if !okAmount || !okDate {
		return base{}, false
	}
	return base{amount: amount, date: date}, true
}

// optText normalizes an optional text field; nil when absent or blank.
func optText(row RawRecord, sources []string) *string {
	s, ok := normalize.Text(resolve(row, sources))
	if !ok {
		return nil
	}
	return &s
}

func buildBank(row RawRecord) (entity.Record, bool) {
	tx, ok := bankFields(row)
	if !ok {
		return nil, false
	}
	return &tx, true
}

func bankFields(row RawRecord) (entity.BankTransaction, bool) {
	b, ok := normalizeBase(row)
	if !ok {
		return entity.BankTransaction{}, false
	}
	return entity.BankTransaction{
		Amount:      b.amount,
		Date:        b.date,
		Description: optText(row, descriptionColumns),
	}, true
}

func buildCheck(row RawRecord) (entity.Record, bool) {
	tx, ok := bankFields(row)
	if !ok {
		return nil, false
	}
	return &entity.Check{
		BankTransaction: tx,
		CheckNumber:     optText(row, checkNumColumns),
		PayerName:       optText(row, payerNameColumns),
	}, true
}

func buildTransfer(row RawRecord) (entity.Record, bool) {
	tx, ok := bankFields(row)
	if !ok {
		return nil, false
	}
	return &entity.Transfer{
		BankTransaction: tx,
		ReferenceNumber: optText(row, referenceColumns),
	}, true
}

func buildInvoice(row RawRecord) (entity.Record, bool) {
	b, ok := normalizeBase(row)
	if !ok {
		return nil, false
	}
	return &entity.Invoice{
		Amount:        b.amount,
		Date:          b.date,
		InvoiceNumber: optText(row, invoiceNumColumns),
		Status:        optText(row, statusColumns),
	}, true
}

// buildReceipt reuses the invoice field set; the document number is carried
// as the receipt number.
func buildReceipt(row RawRecord) (entity.Record, bool) {
	rec, ok := buildInvoice(row)
	if !ok {
		return nil, false
	}
	inv := rec.(*entity.Invoice)
	return &entity.Receipt{
		Amount:        inv.Amount,
		Date:          inv.Date,
		ReceiptNumber: inv.InvoiceNumber,
		Status:        inv.Status,
	}, true
}
