package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"ohs-consultant/internal/dto"

	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	exportSheet = "Запросы"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

var exportHeaders = []string{
	"Пользователь", "Вопрос", "Ответ", "Источник", "Категория", "AI провайдер", "Время ответа, с", "Дата",
}

func exportRecord(q dto.AnonymizedQuery) []string {
	return []string{
		q.User,
		q.Question,
		q.Answer,
		q.Source,
		q.Category,
		q.AIProvider,
		strconv.FormatFloat(q.ResponseTime, 'f', 2, 64),
		q.CreatedAt,
	}
}

// ContentType returns the MIME type and file extension for an export format.
func ContentType(format string) (string, error) {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8", nil
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func WriteExport(w io.Writer, format string, rows []dto.AnonymizedQuery) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func WriteCSV(w io.Writer, rows []dto.AnonymizedQuery) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, q := range rows {
		if err := writer.Write(exportRecord(q)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func WriteXLSX(w io.Writer, rows []dto.AnonymizedQuery) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for rowIdx, q := range rows {
		values := []interface{}{
			q.User, q.Question, q.Answer, q.Source, q.Category, q.AIProvider, q.ResponseTime, q.CreatedAt,
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
		}
	}

	for i := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheet, col, col, 20)
	}
	f.SetColWidth(exportSheet, "B", "C", 60)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
