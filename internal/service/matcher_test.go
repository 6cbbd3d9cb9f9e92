package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ofer2300/Financial-M2/constants"
	"github.com/ofer2300/Financial-M2/internal/common"
	"github.com/ofer2300/Financial-M2/internal/entity"
	"github.com/ofer2300/Financial-M2/internal/tabular"
)

// fakeStore is an in-memory repository.Store.
type fakeStore struct {
	records   []entity.Record
	matches   []entity.MatchRecord
	bank      []entity.BankTransaction
	unmatched []entity.BankTransaction
	matched   bool
	insertErr error
}

func (f *fakeStore) InsertRecords(_ context.Context, records []entity.Record) (int, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.records = append(f.records, records...)
	return len(records), nil
}

func (f *fakeStore) RunMatching(context.Context) error {
	f.matched = true
	return nil
}

func (f *fakeStore) MatchDetails(context.Context) ([]entity.MatchRecord, error) {
	return f.matches, nil
}

func (f *fakeStore) ListBankTransactions(context.Context) ([]entity.BankTransaction, error) {
	return f.bank, nil
}

func (f *fakeStore) ListUnmatched(context.Context) ([]entity.BankTransaction, error) {
	return f.unmatched, nil
}

// fakeDocs returns canned text per file base name.
type fakeDocs struct {
	text map[string]string
}

func (f *fakeDocs) ExtractText(_ context.Context, path string) (string, error) {
	txt, ok := f.text[filepath.Base(path)]
	if !ok {
		return "", errors.New("no text for " + path)
	}
	return txt, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const bankCSV = "סכום,תאריך,תיאור\n" +
	"100.50,2024-01-15,שכירות\n" +
	",2024-01-16,חסר סכום\n" +
	"301.25,2024-02-20,ספק\n"

const invoiceText = "סכום לתשלום: ₪1,500.00\nחשבונית מס' 4821\nתאריך: 03.05.2024\n"

func TestLoadTabular(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bank.csv", bankCSV)

	store := &fakeStore{}
	m := New(store, tabular.NewReader(nil), &fakeDocs{}, nil)

	res, err := m.LoadTabular(context.Background(), path, constants.DocTypeBank)
	if err != nil {
		t.Fatalf("LoadTabular: %v", err)
	}
	if res.Rows != 3 || res.Retained != 2 || res.Dropped != 1 || res.Inserted != 2 {
		t.Errorf("result = %+v", res)
	}
	if len(store.records) != 2 {
		t.Fatalf("stored %d records, want 2", len(store.records))
	}
	tx, ok := store.records[0].(*entity.BankTransaction)
	if !ok {
		t.Fatalf("record type %T", store.records[0])
	}
	if !tx.Amount.Equal(decimal.RequireFromString("100.50")) || tx.Date != "2024-01-15" {
		t.Errorf("first record = %+v", tx)
	}
}

func TestLoadTabularPersistError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bank.csv", bankCSV)

	store := &fakeStore{insertErr: errors.New("connection reset")}
	m := New(store, tabular.NewReader(nil), &fakeDocs{}, nil)

	if _, err := m.LoadTabular(context.Background(), path, constants.DocTypeBank); err == nil {
		t.Fatal("want error from failed insert")
	}
}

func TestProcessDocumentPersistsCompleteExtraction(t *testing.T) {
	store := &fakeStore{}
	docs := &fakeDocs{text: map[string]string{"invoice.pdf": invoiceText}}
	m := New(store, tabular.NewReader(nil), docs, nil)

	result, persisted, err := m.ProcessDocument(context.Background(), "invoice.pdf", constants.DocTypeInvoice)
	if err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}
	if !persisted {
		t.Fatal("want persisted")
	}
	if !result.Complete() {
		t.Errorf("result = %+v", result)
	}
	if len(store.records) != 1 {
		t.Fatalf("stored %d records, want 1", len(store.records))
	}
	inv, ok := store.records[0].(*entity.Invoice)
	if !ok {
		t.Fatalf("record type %T", store.records[0])
	}
	if inv.Date != "2024-05-03" || inv.InvoiceNumber == nil || *inv.InvoiceNumber != "4821" {
		t.Errorf("invoice = %+v", inv)
	}
}

func TestProcessDocumentIncompleteNotPersisted(t *testing.T) {
	store := &fakeStore{}
	docs := &fakeDocs{text: map[string]string{"scan.pdf": "טקסט ללא שדות"}}
	m := New(store, tabular.NewReader(nil), docs, nil)

	_, persisted, err := m.ProcessDocument(context.Background(), "scan.pdf", constants.DocTypeReceipt)
	if err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}
	if persisted {
		t.Fatal("incomplete extraction must not persist")
	}
	if len(store.records) != 0 {
		t.Errorf("stored %d records, want 0", len(store.records))
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bank_2024.csv", bankCSV)
	writeFile(t, dir, "invoice_4821.txt", invoiceText)
	writeFile(t, dir, "broken.txt", "") // extractor has no text for it
	writeFile(t, dir, "notes.docx", "ignored")
	writeFile(t, dir, ".hidden.csv", bankCSV)

	store := &fakeStore{}
	docs := &fakeDocs{text: map[string]string{"invoice_4821.txt": invoiceText}}
	m := New(store, tabular.NewReader(nil), docs, nil)

	sum, err := m.LoadDirectory(context.Background(), dir, true)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	want := DirSummary{Scanned: 4, Loaded: 2, Persisted: 1, Skipped: 1, Failed: 1}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}
	// 2 bank rows + 1 invoice
	if len(store.records) != 3 {
		t.Errorf("stored %d records, want 3", len(store.records))
	}
}

func TestKindFromFilename(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want constants.DocType
	}{
		{"שיקים_ינואר.xlsx", "xlsx", constants.DocTypeChecks},
		{"Checks-2024.csv", "csv", constants.DocTypeChecks},
		{"העברות.csv", "csv", constants.DocTypeTransfer},
		{"bank_transfers.xlsx", "xlsx", constants.DocTypeTransfer},
		{"statement.csv", "csv", constants.DocTypeBank},
		{"חשבונית_123.pdf", "pdf", constants.DocTypeInvoice},
		{"Invoice-99.png", "png", constants.DocTypeInvoice},
		{"scan001.jpg", "jpg", constants.DocTypeReceipt},
	}
	for _, tt := range tests {
		if got := kindFromFilename(tt.name, tt.ext); got != tt.want {
			t.Errorf("kindFromFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestProcessMatches(t *testing.T) {
	store := &fakeStore{
		matches: []entity.MatchRecord{{MatchedTable: "invoices"}},
	}
	m := New(store, tabular.NewReader(nil), &fakeDocs{}, nil)

	matches, err := m.ProcessMatches(context.Background())
	if err != nil {
		t.Fatalf("ProcessMatches: %v", err)
	}
	if !store.matched {
		t.Error("matching procedure was not triggered")
	}
	if len(matches) != 1 {
		t.Errorf("got %d matches, want 1", len(matches))
	}
}

func TestOverallStatistics(t *testing.T) {
	store := &fakeStore{
		matches: []entity.MatchRecord{
			{MatchedTable: "invoices", BankAmount: decimal.NewFromInt(100)},
		},
		unmatched: []entity.BankTransaction{
			{Amount: decimal.NewFromInt(40)},
			{Amount: decimal.NewFromInt(60)},
		},
	}
	m := New(store, tabular.NewReader(nil), &fakeDocs{}, nil)

	s, err := m.OverallStatistics(context.Background())
	if err != nil {
		t.Fatalf("OverallStatistics: %v", err)
	}
	if got, want := s.MatchRate, float64(1)/float64(3)*100; got != want {
		t.Errorf("MatchRate = %v, want %v", got, want)
	}
	if s.MatchesByType["invoices"] != 1 {
		t.Errorf("MatchesByType = %v", s.MatchesByType)
	}
}

func TestCurrentMonth(t *testing.T) {
	store := &fakeStore{
		bank: []entity.BankTransaction{
			{Amount: decimal.NewFromInt(100), Date: "2024-03-10"},
		},
	}
	m := New(store, tabular.NewReader(nil), &fakeDocs{}, nil)
	m.now = func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) }

	stat, err := m.CurrentMonth(context.Background())
	if err != nil {
		t.Fatalf("CurrentMonth: %v", err)
	}
	if stat.Year != 2024 || stat.Month != 3 || stat.TotalTransactions != 1 {
		t.Errorf("stat = %+v", stat)
	}

	m.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	if _, err := m.CurrentMonth(context.Background()); !errors.Is(err, common.ErrNoDataForPeriod) {
		t.Fatalf("err = %v, want ErrNoDataForPeriod", err)
	}
}
