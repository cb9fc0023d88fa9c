package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"skincare-backend/internal/domain"
	"skincare-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

// Export formats accepted by ExportMonthlySummary.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

var exportHeaders = []string{"DATE", "AM COMPLETION (%)", "PM COMPLETION (%)", "AM APPLIED", "PM APPLIED"}

func (u *routineUsecase) ExportMonthlySummary(ctx context.Context, uid string, year, month int, format string) ([]byte, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatXLSX
	}
	if format != FormatXLSX && format != FormatCSV {
		return nil, "", apperror.BadRequest(fmt.Sprintf("unsupported export format: %s", format))
	}

	days, err := u.GetMonthlySummary(ctx, uid, year, month)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("routine_%04d_%02d.%s", year, month, format)
	var data []byte
	if format == FormatCSV {
		data, err = exportCSV(days)
	} else {
		data, err = exportExcel(days)
	}
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	return data, filename, nil
}

func exportRow(day domain.DaySummary) []interface{} {
	return []interface{}{
		day.Date,
		roundPercent(day.Completion.AM),
		roundPercent(day.Completion.PM),
		safeCell(strings.Join(day.Status.AM, ", ")),
		safeCell(strings.Join(day.Status.PM, ", ")),
	}
}

// safeCell stops spreadsheet apps from evaluating user-supplied text as a
// formula.
func safeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// roundPercent keeps two decimals for display; stored values are unrounded.
func roundPercent(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return f
}

func exportExcel(days []domain.DaySummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Routine"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, day := range days {
		for colIdx, value := range exportRow(day) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportHeaders {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func exportCSV(days []domain.DaySummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, day := range days {
		row := exportRow(day)
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
