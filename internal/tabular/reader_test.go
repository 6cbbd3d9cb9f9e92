package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ofer2300/Financial-M2/internal/common"
)

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.csv")
	content := "סכום,תאריך,תיאור\n100.50,01/01/2024,שכירות\n200,02/01/2024,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := NewReader(nil).ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["סכום"] != "100.50" || rows[0]["תיאור"] != "שכירות" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1]["תיאור"] != "" {
		t.Errorf("empty cell should stay an empty string, got %v", rows[1]["תיאור"])
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.csv")
	content := "amount,date,description\n100,01/01/2024\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := NewReader(nil).ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if _, present := rows[0]["description"]; present {
		t.Error("cell past end of short row should be a missing column")
	}
	if rows[0]["amount"] != "100" {
		t.Errorf("row = %v", rows[0])
	}
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checks.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	data := [][]any{
		{"סכום", "תאריך", "מספר_שיק"},
		{"1500", "15/03/2024", "42"},
	}
	for i, row := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	rows, err := NewReader(nil).ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0]["מספר_שיק"] != "42" || rows[0]["סכום"] != "1500" {
		t.Errorf("row = %v", rows[0])
	}
}

func TestReadFileUnsupportedFormat(t *testing.T) {
	_, err := NewReader(nil).ReadFile("statement.ods")
	if !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := NewReader(nil).ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
