package writer

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Sei-ceramic/excel-merger/internal/model"
)

// 열 너비 상한. 비고 열처럼 긴 내용이 시트를 망가뜨리지 않게 한다.
const maxColumnWidth = 50

// Writer 엑셀 출력 어댑터. 열 순서를 그대로 유지하고 열 너비를 내용에 맞춘다.
type Writer struct{}

// New 라이터 생성
func New() *Writer {
	return &Writer{}
}

// Write 시트들을 하나의 엑셀 파일로 저장한다
func (w *Writer) Write(path string, sheets []model.SheetData) error {
	if len(sheets) == 0 {
		return fmt.Errorf("저장할 시트가 없습니다")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			// 기본 시트를 첫 시트로 재사용
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("시트 이름 변경 실패: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return fmt.Errorf("시트 생성 실패 (%s): %w", sheet.Name, err)
			}
		}
		if err := writeSheet(f, sheet); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("파일 저장 실패: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet model.SheetData) error {
	// 헤더
	for j, col := range sheet.Columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Name, cell, col); err != nil {
			return fmt.Errorf("헤더 기록 실패 (%s): %w", sheet.Name, err)
		}
	}

	// 데이터
	for i, row := range sheet.Rows {
		for j, c := range row {
			if c.IsEmpty() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, cell, cellValue(c)); err != nil {
				return fmt.Errorf("셀 기록 실패 (%s!%s): %w", sheet.Name, cell, err)
			}
		}
	}

	return autosizeColumns(f, sheet)
}

// cellValue 셀의 네이티브 값
func cellValue(c model.Cell) interface{} {
	switch c.Kind {
	case model.CellNumber:
		return c.Number
	case model.CellTime:
		return c.Time
	default:
		return c.Text
	}
}

// autosizeColumns 열 너비를 내용 최대 길이 + 2로 맞춘다 (상한 50)
func autosizeColumns(f *excelize.File, sheet model.SheetData) error {
	for j, col := range sheet.Columns {
		width := len([]rune(col))
		for _, row := range sheet.Rows {
			if j >= len(row) {
				continue
			}
			if n := len([]rune(row[j].String())); n > width {
				width = n
			}
		}
		width += 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}

		name, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, name, name, float64(width)); err != nil {
			return fmt.Errorf("열 너비 설정 실패 (%s): %w", sheet.Name, err)
		}
	}
	return nil
}
