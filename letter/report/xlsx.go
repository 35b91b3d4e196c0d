package report

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-letters/letter"
)

const defaultSheetName = "Requests"

// XLSXRenderer renders the register as an XLSX workbook.
type XLSXRenderer struct {
	SheetName string
}

func (r XLSXRenderer) Render(ctx context.Context, records []letter.Request, w io.Writer) (Stats, error) {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	sheetName := r.SheetName
	if sheetName == "" {
		sheetName = defaultSheetName
	}
	defaultSheet := file.GetSheetName(0)
	if defaultSheet != sheetName {
		file.SetSheetName(defaultSheet, sheetName)
	}

	stream, err := file.NewStreamWriter(sheetName)
	if err != nil {
		return Stats{}, err
	}

	headerID, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Stats{}, err
	}

	header := Header()
	headerCells := make([]interface{}, len(header))
	for i, label := range header {
		headerCells[i] = excelize.Cell{StyleID: headerID, Value: label}
	}
	if err := stream.SetRow("A1", headerCells); err != nil {
		return Stats{}, err
	}

	stats := Stats{}
	rowIndex := 2
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		row := recordRow(record)
		cells := make([]interface{}, len(row))
		for i, value := range row {
			cells[i] = value
		}
		if err := stream.SetRow(fmt.Sprintf("A%d", rowIndex), cells); err != nil {
			return stats, err
		}
		rowIndex++
		stats.Rows++
	}

	if err := stream.Flush(); err != nil {
		return stats, err
	}

	cw := &countingWriter{w: w}
	if _, err := file.WriteTo(cw); err != nil {
		return stats, err
	}
	stats.Bytes = cw.count
	return stats, nil
}
