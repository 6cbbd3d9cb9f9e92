// Package tabular reads spreadsheet exports into raw records for the
// adapter. It owns file-format concerns only; no normalization happens here.
package tabular

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ofer2300/Financial-M2/constants"
	"github.com/ofer2300/Financial-M2/internal/adapter"
	"github.com/ofer2300/Financial-M2/internal/common"
)

type Reader struct {
	logger *slog.Logger
}

func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// ReadFile reads a CSV or XLSX file. The first row is the header; every
// following row becomes one RawRecord keyed by header name. Cell values stay
// plain strings, the normalizer decides what they mean.
func (r *Reader) ReadFile(path string) ([]adapter.RawRecord, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	switch ext {
	case "csv":
		return r.readCSV(path)
	case "xlsx":
		return r.readXLSX(path)
	default:
		return nil, fmt.Errorf("%q: %w", ext, common.ErrUnsupportedFormat)
	}
}

func (r *Reader) readCSV(path string) ([]adapter.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.Warn("closing csv file", "path", path, "error", cerr)
		}
	}()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1 // ragged exports happen
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return toRecords(rows), nil
}

func (r *Reader) readXLSX(path string) ([]adapter.RawRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.Warn("closing xlsx file", "path", path, "error", cerr)
		}
	}()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx sheet %q: %w", sheet, err)
	}
	return toRecords(rows), nil
}

// toRecords zips the header row with each data row. Cells past the end of a
// short row are simply missing columns.
func toRecords(rows [][]string) []adapter.RawRecord {
	if len(rows) == 0 {
		return nil
	}
	header := rows[0]
	out := make([]adapter.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(adapter.RawRecord, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}
