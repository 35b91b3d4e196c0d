package report

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-letters/letter"
)

func seedRecords() []letter.Request {
	created := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	return []letter.Request{
		{
			ID:              "req-1",
			StudentName:     "Asha Rao",
			CollegeName:     "XYZ College",
			Course:          "Marine Engineering",
			DurationStart:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			DurationEnd:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			ReferenceNumber: "JNPA/2024/001",
			Status:          letter.StatusApproved,
			IssuedAt:        created,
			GeneratedAt:     created,
			CreatedAt:       created,
		},
		{
			ID:              "req-2",
			StudentName:     "Ravi Kumar",
			CollegeName:     "ABC Institute",
			Course:          "Logistics",
			DurationStart:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			DurationEnd:     time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
			ReferenceNumber: "JNPA/2024/002",
			Status:          letter.StatusPending,
			CreatedAt:       created.Add(time.Hour),
		},
	}
}

func TestCSVRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	stats, err := CSVRenderer{}.Render(context.Background(), seedRecords(), buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", stats.Rows)
	}
	if stats.Bytes != int64(buf.Len()) {
		t.Fatalf("expected %d bytes, got %d", buf.Len(), stats.Bytes)
	}

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "student_name" || rows[0][7] != "status" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][1] != "Asha Rao" || rows[1][6] != "JNPA/2024/001" {
		t.Fatalf("unexpected first row %v", rows[1])
	}
	if rows[1][4] != "2024-01-01" {
		t.Fatalf("unexpected duration start %q", rows[1][4])
	}
	if rows[1][8] != "2024-03-15T10:30:00Z" {
		t.Fatalf("unexpected issued at %q", rows[1][8])
	}
	if rows[2][8] != "" {
		t.Fatalf("expected empty issued at for pending row, got %q", rows[2][8])
	}
}

func TestCSVRenderer_CustomDelimiter(t *testing.T) {
	buf := &bytes.Buffer{}
	if _, err := (CSVRenderer{Delimiter: ';'}).Render(context.Background(), seedRecords(), buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	reader := csv.NewReader(bytes.NewReader(buf.Bytes()))
	reader.Comma = ';'
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 || rows[1][0] != "req-1" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestXLSXRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	stats, err := XLSXRenderer{}.Render(context.Background(), seedRecords(), buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", stats.Rows)
	}
	if stats.Bytes == 0 {
		t.Fatalf("expected non-zero bytes")
	}

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	sheet := file.GetSheetName(0)
	if sheet != "Requests" {
		t.Fatalf("unexpected sheet name %q", sheet)
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[2][1] != "Ravi Kumar" {
		t.Fatalf("unexpected second row %v", rows[2])
	}
}

func TestSQLiteRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	stats, err := SQLiteRenderer{}.Render(context.Background(), seedRecords(), buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", stats.Rows)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected sqlite output")
	}

	path := writeTempSQLite(t, buf.Bytes())
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "internship_requests"`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows in db, got %d", count)
	}

	var status string
	if err := db.QueryRow(`SELECT "status" FROM "internship_requests" WHERE "id" = ?`, "req-1").Scan(&status); err != nil {
		t.Fatalf("select status: %v", err)
	}
	if status != "approved" {
		t.Fatalf("expected approved, got %q", status)
	}
}

func TestSQLiteRenderer_TableNameSanitized(t *testing.T) {
	buf := &bytes.Buffer{}
	if _, err := (SQLiteRenderer{TableName: "my register!"}).Render(context.Background(), seedRecords(), buf); err != nil {
		t.Fatalf("render: %v", err)
	}

	path := writeTempSQLite(t, buf.Bytes())
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "my_register_"`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}

func TestForFormat(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatXLSX, FormatSQLite} {
		if !format.Valid() {
			t.Fatalf("expected %s to be valid", format)
		}
		if _, err := ForFormat(format); err != nil {
			t.Fatalf("renderer for %s: %v", format, err)
		}
	}
	if Format("pdf").Valid() {
		t.Fatalf("pdf is not a register format")
	}
	if _, err := ForFormat(Format("pdf")); letter.KindFromError(err) != letter.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func writeTempSQLite(t *testing.T, data []byte) string {
	t.Helper()

	file, err := os.CreateTemp("", "sqlite-test-*.sqlite")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		t.Fatalf("write temp file: %v", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		t.Fatalf("close temp file: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Remove(file.Name())
	})
	return file.Name()
}
