// Package export writes the output tables to an Excel workbook.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dietwater/internal/food"
	"github.com/KaramelBytes/dietwater/internal/store"
	"github.com/KaramelBytes/dietwater/internal/survey"
	"github.com/KaramelBytes/dietwater/internal/utils"
)

// Sheet names.
const (
	SurveySheet = "survey"
	FoodSheet   = "foods"
)

// Workbook builds a workbook with one sheet per table, header in row 1.
func Workbook(labeled []survey.Labeled, foods []food.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SurveySheet); err != nil {
		f.Close()
		return nil, eris.Wrap(err, "xlsx: rename sheet")
	}
	if _, err := f.NewSheet(FoodSheet); err != nil {
		f.Close()
		return nil, eris.Wrap(err, "xlsx: add sheet")
	}
	if err := writeSheet(f, SurveySheet, store.SurveyColumns, store.SurveyRows(labeled)); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSheet(f, FoodSheet, food.Columns, store.FoodRows(foods)); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return eris.Wrapf(err, "xlsx: write %s header", sheet)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return eris.Wrap(err, "xlsx: cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return eris.Wrapf(err, "xlsx: write %s row %d", sheet, i)
		}
	}
	return nil
}

// WriteWorkbook writes both tables to path.
func WriteWorkbook(path string, labeled []survey.Labeled, foods []food.Record) error {
	f, err := Workbook(labeled, foods)
	if err != nil {
		return err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return eris.Wrap(err, "xlsx: serialize")
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
