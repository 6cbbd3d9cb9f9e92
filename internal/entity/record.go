package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ofer2300/Financial-M2/constants"
)

// Record is one normalized financial document, independent of the column
// naming or language of its source. Amount is always a finite decimal rounded
// to 2 places and Date is always YYYY-MM-DD; optional text fields are either
// nil or a non-empty trimmed string. Records are immutable once built.
type Record interface {
	Kind() constants.DocType
}

// BankTransaction is one current-account row.
type BankTransaction struct {
	ID          uuid.UUID
	Amount      decimal.Decimal
	Date        string
	Description *string
}

func (BankTransaction) Kind() constants.DocType { return constants.DocTypeBank }

// Check extends the bank-transaction fields with check-specific ones.
type Check struct {
	BankTransaction
	CheckNumber *string
	PayerName   *string
}

func (Check) Kind() constants.DocType { return constants.DocTypeChecks }

// Transfer extends the bank-transaction fields with a wire reference.
type Transfer struct {
	BankTransaction
	ReferenceNumber *string
}

func (Transfer) Kind() constants.DocType { return constants.DocTypeTransfer }

// Invoice is one claim document of kind invoice.
type Invoice struct {
	ID            uuid.UUID
	Amount        decimal.Decimal
	Date          string
	InvoiceNumber *string
	Status        *string
}

func (Invoice) Kind() constants.DocType { return constants.DocTypeInvoice }

// Receipt is one claim document of kind receipt.
type Receipt struct {
	ID            uuid.UUID
	Amount        decimal.Decimal
	Date          string
	ReceiptNumber *string
	Status        *string
}

func (Receipt) Kind() constants.DocType { return constants.DocTypeReceipt }
