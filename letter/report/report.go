// Package report renders the internship request register into portable
// formats for record keeping: CSV, XLSX, and a SQLite archive.
package report

import (
	"context"
	"io"
	"time"

	"github.com/goliatone/go-letters/letter"
)

// Format names a register output format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatCSV, FormatXLSX, FormatSQLite:
		return true
	}
	return false
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatSQLite:
		return "application/vnd.sqlite3"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Ext returns the filename extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatXLSX:
		return ".xlsx"
	case FormatSQLite:
		return ".sqlite"
	default:
		return ".csv"
	}
}

// Stats summarizes one render.
type Stats struct {
	Rows  int64
	Bytes int64
}

// Renderer writes the register for a bounded set of records.
type Renderer interface {
	Render(ctx context.Context, records []letter.Request, w io.Writer) (Stats, error)
}

// ForFormat returns the renderer for a format.
func ForFormat(f Format) (Renderer, error) {
	switch f {
	case FormatCSV:
		return CSVRenderer{}, nil
	case FormatXLSX:
		return XLSXRenderer{}, nil
	case FormatSQLite:
		return SQLiteRenderer{}, nil
	}
	return nil, letter.NewError(letter.KindValidation, "unknown report format "+string(f), nil)
}

// Header is the register column order shared by every format.
func Header() []string {
	return []string{
		"id",
		"student_name",
		"college_name",
		"course",
		"duration_start",
		"duration_end",
		"reference_number",
		"status",
		"issued_at",
		"generated_at",
		"created_at",
	}
}

func recordRow(record letter.Request) []string {
	return []string{
		record.ID,
		record.StudentName,
		record.CollegeName,
		record.Course,
		formatDate(record.DurationStart),
		formatDate(record.DurationEnd),
		record.ReferenceNumber,
		string(record.Status),
		formatTimestamp(record.IssuedAt),
		formatTimestamp(record.GeneratedAt),
		formatTimestamp(record.CreatedAt),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(letter.DateLayout)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

type countingWriter struct {
	w     io.Writer
	count int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.count += int64(n)
	return n, err
}
