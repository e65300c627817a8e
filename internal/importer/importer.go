// Package importer reads business lists from CSV and XLSX files.
// Imported records never carry a live place identifier: any identifier
// column is kept but marked with the import sentinel so the pipeline
// routes those records through the map-search fallback.
package importer

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/reviewscout/enrich-cli/internal/model"
)

// columnAliases maps header spellings to record fields.
var columnAliases = map[string]string{
	"title":        "title",
	"name":         "title",
	"business":     "title",
	"businessname": "title",
	"address":      "address",
	"placeid":      "placeid",
	"place_id":     "placeid",
	"phone":        "phone",
	"telephone":    "phone",
	"website":      "website",
	"url":          "url",
	"email":        "email",
	"e-mail":       "email",
}

// ReadFile loads business records from path, dispatching on extension
// (.csv or .xlsx). The first row must be a header.
func ReadFile(path string) ([]model.BusinessRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, eris.Errorf("importer: unsupported file type %q", filepath.Ext(path))
	}
}

// ReadCSV loads business records from a CSV file.
func ReadCSV(path string) ([]model.BusinessRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open csv")
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "importer: read csv header")
	}
	cols := mapHeader(header)

	var records []model.BusinessRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "importer: read csv row")
		}
		if rec, ok := rowToRecord(cols, row); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// ReadXLSX loads business records from the first sheet of an XLSX file.
func ReadXLSX(path string) ([]model.BusinessRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("importer: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	var cols map[string]int
	var records []model.BusinessRecord
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = strings.TrimSpace(c.String())
		}
		if i == 0 {
			cols = mapHeader(cells)
			continue
		}
		if rec, ok := rowToRecord(cols, cells); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func mapHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if field, ok := columnAliases[key]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	return cols
}

func rowToRecord(cols map[string]int, row []string) (model.BusinessRecord, bool) {
	get := func(field string) string {
		idx, ok := cols[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rec := model.BusinessRecord{
		Title:   get("title"),
		Address: get("address"),
		URL:     get("url"),
		Phone:   get("phone"),
		Website: get("website"),
		Email:   strings.ToLower(get("email")),
	}
	if rec.Title == "" {
		return model.BusinessRecord{}, false
	}

	// Identifiers from a spreadsheet may be stale or fabricated;
	// sentinel them so no details lookup is attempted.
	if id := get("placeid"); id != "" {
		if strings.HasPrefix(id, model.ImportedPlaceIDPrefix) {
			rec.PlaceID = id
		} else {
			rec.PlaceID = model.ImportedPlaceIDPrefix + id
		}
	}

	return rec, true
}
