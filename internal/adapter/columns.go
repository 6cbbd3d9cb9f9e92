package adapter

// RawRecord is one row from a tabular source: column name to untyped scalar.
// Column names may be in either source language; values may be strings,
// numbers or nil.
type RawRecord map[string]any

// Accepted source-column names per canonical field, resolved in priority
// order: the Hebrew export name first, then the English one. A static table,
// not runtime introspection.
var (
	amountColumns      = []string{"סכום", "amount"}
	dateColumns        = []string{"תאריך", "date"}
	descriptionColumns = []string{"תיאור", "description"}
	invoiceNumColumns  = []string{"מספר_חשבונית", "invoice_number"}
	statusColumns      = []string{"סטטוס", "status"}
	checkNumColumns    = []string{"מספר_שיק", "check_number"}
	payerNameColumns   = []string{"שם_משלם", "payer_name"}
	referenceColumns   = []string{"מספר_אסמכתא", "reference_number"}
)

// resolve returns the first present source column's value. A field with no
// matching column is missing for normalization purposes.
func resolve(row RawRecord, sources []string) any {
	for _, name := range sources {
		if v, ok := row[name]; ok {
			return v
		}
	}
	return nil
}
