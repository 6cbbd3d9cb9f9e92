package constants

import "strings"

// DocType is the canonical document kind for a financial record.
type DocType string

// Stable values (used for routing and as part of log/error context).
const (
	DocTypeBank     DocType = "bank"      // current-account (עו"ש) transactions
	DocTypeChecks   DocType = "checks"    // deposited checks
	DocTypeTransfer DocType = "transfers" // bank transfers
	DocTypeInvoice  DocType = "invoice"   // claim documents: invoices
	DocTypeReceipt  DocType = "receipt"   // claim documents: receipts
)

// tableNames maps each document kind to its storage table.
var tableNames = map[DocType]string{
	DocTypeBank:     "bank_transactions",
	DocTypeChecks:   "checks",
	DocTypeTransfer: "bank_transfers",
	DocTypeInvoice:  "invoices",
	DocTypeReceipt:  "receipts",
}

// TableName returns the storage table for the kind, or "" if unknown.
func (d DocType) TableName() string {
	return tableNames[d]
}

// Valid reports whether d is one of the five supported kinds.
func (d DocType) Valid() bool {
	_, ok := tableNames[d]
	return ok
}

// ParseDocType normalizes a user-supplied kind string.
func ParseDocType(s string) (DocType, bool) {
	d := DocType(strings.ToLower(strings.TrimSpace(s)))
	if d.Valid() {
		return d, true
	}
	return "", false
}
