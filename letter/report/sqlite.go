package report

import (
	"context"
	"database/sql"
	"io"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-letters/letter"
)

const defaultTableName = "internship_requests"

// SQLiteRenderer writes the register into a single-table SQLite database and
// streams the database file to the writer. The archive is self-describing:
// any SQLite client can open it without this code.
type SQLiteRenderer struct {
	TableName string
}

const createTableSQL = ` (
	"id" TEXT PRIMARY KEY,
	"student_name" TEXT,
	"college_name" TEXT,
	"course" TEXT,
	"duration_start" TEXT,
	"duration_end" TEXT,
	"reference_number" TEXT,
	"status" TEXT,
	"issued_at" TEXT,
	"generated_at" TEXT,
	"created_at" TEXT
)`

const insertSQL = ` ("id", "student_name", "college_name", "course", "duration_start", "duration_end", "reference_number", "status", "issued_at", "generated_at", "created_at") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r SQLiteRenderer) Render(ctx context.Context, records []letter.Request, w io.Writer) (Stats, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	tableName := sanitizeIdentifier(r.TableName, defaultTableName)

	tempFile, err := os.CreateTemp("", "go-letters-*.sqlite")
	if err != nil {
		return Stats{}, letter.NewError(letter.KindInternal, "sqlite temp file create failed", err)
	}
	path := tempFile.Name()
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(path)
		return Stats{}, letter.NewError(letter.KindInternal, "sqlite temp file close failed", err)
	}
	defer func() {
		_ = os.Remove(path)
	}()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Stats{}, letter.NewError(letter.KindInternal, "sqlite open failed", err)
	}

	stats, err := writeRows(ctx, db, tableName, records)
	if err != nil {
		_ = db.Close()
		return stats, err
	}
	if err := db.Close(); err != nil {
		return stats, letter.NewError(letter.KindInternal, "sqlite close failed", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return stats, letter.NewError(letter.KindInternal, "sqlite temp file open failed", err)
	}
	defer func() {
		_ = file.Close()
	}()

	cw := &countingWriter{w: w}
	if _, err := io.Copy(cw, file); err != nil {
		return Stats{Rows: stats.Rows, Bytes: cw.count}, err
	}
	stats.Bytes = cw.count
	return stats, nil
}

func writeRows(ctx context.Context, db *sql.DB, tableName string, records []letter.Request) (Stats, error) {
	stats := Stats{}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return stats, letter.NewError(letter.KindInternal, "sqlite begin transaction failed", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	quoted := quoteIdentifier(tableName)
	if _, err := tx.ExecContext(ctx, "CREATE TABLE "+quoted+createTableSQL); err != nil {
		return stats, letter.NewError(letter.KindInternal, "sqlite create table failed", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+quoted+insertSQL)
	if err != nil {
		return stats, letter.NewError(letter.KindInternal, "sqlite prepare insert failed", err)
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			_ = stmt.Close()
			return stats, err
		}

		row := recordRow(record)
		values := make([]any, len(row))
		for i, value := range row {
			values[i] = value
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			_ = stmt.Close()
			return stats, letter.NewError(letter.KindInternal, "sqlite insert failed", err)
		}
		stats.Rows++
	}

	if err := stmt.Close(); err != nil {
		return stats, letter.NewError(letter.KindInternal, "sqlite close statement failed", err)
	}
	if err := tx.Commit(); err != nil {
		return stats, letter.NewError(letter.KindInternal, "sqlite commit failed", err)
	}
	return stats, nil
}

func sanitizeIdentifier(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || (out[0] >= '0' && out[0] <= '9') {
		return fallback
	}
	return out
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
