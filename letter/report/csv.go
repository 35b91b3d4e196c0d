package report

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/goliatone/go-letters/letter"
)

// CSVRenderer renders the register as CSV with a header row.
type CSVRenderer struct {
	Delimiter rune
}

func (r CSVRenderer) Render(ctx context.Context, records []letter.Request, w io.Writer) (Stats, error) {
	cw := &countingWriter{w: w}
	writer := csv.NewWriter(cw)
	if r.Delimiter != 0 {
		writer.Comma = r.Delimiter
	}

	if err := writer.Write(Header()); err != nil {
		return Stats{}, err
	}

	stats := Stats{}
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := writer.Write(recordRow(record)); err != nil {
			return stats, err
		}
		stats.Rows++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return stats, err
	}
	stats.Bytes = cw.count
	return stats, nil
}
