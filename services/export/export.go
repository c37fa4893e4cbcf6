// Package exportsvc renders tabular exports of admin listings.
package exportsvc

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a requested export format. Formats the dashboard
// advertises but the backend does not render (xlsx, pdf) are rejected the
// same way as garbage input.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	}
	return "", core.NewValidationError(nil, core.FieldError{
		Field: "format",
		Error: fmt.Sprintf("format must be one of: %s, %s", FormatCSV, FormatJSON),
	})
}

func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Filename builds the download name, e.g. students-20260901.csv.
func Filename(prefix string, f Format, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, now.Format("20060102"), f)
}

// Table is a format-agnostic listing ready for export.
type Table struct {
	Headers []string
	Rows    [][]string
}

func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

// Write renders the table in the given format.
func Write(w io.Writer, f Format, table Table) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, table)
	case FormatCSV:
		return writeCSV(w, table)
	}
	return errors.Errorf("unknown export format %q", f)
}

func writeCSV(w io.Writer, table Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Headers); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "writing CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing CSV")
}

func writeJSON(w io.Writer, table Table) error {
	records := make([]map[string]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec := make(map[string]string, len(table.Headers))
		for i, h := range table.Headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		records = append(records, rec)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(records), "encoding JSON export")
}
