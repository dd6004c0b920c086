package reader

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Sei-ceramic/excel-merger/internal/analyzer"
	"github.com/Sei-ceramic/excel-merger/internal/model"
)

// 셀 값은 표시 서식을 거치지 않은 원본 값으로 읽는다.
// 날짜 서식이 걸린 셀은 시리얼 숫자로 들어오며 정규화 단계에서 변환된다.
var rawOptions = excelize.Options{RawCellValue: true}

// readExcelStructure 엑셀 파일의 모든 시트를 분석한다.
// 구조를 찾지 못한 시트는 제외되며 오류가 아니다.
func (r *Reader) readExcelStructure(path string) (*model.FileStructure, error) {
	fs := &model.FileStructure{
		Path:        path,
		DisplayName: filepath.Base(path),
	}

	f, err := excelize.OpenFile(path, rawOptions)
	if err != nil {
		fs.Err = fmt.Sprintf("파일을 열 수 없습니다: %v", err)
		return fs, nil
	}
	defer f.Close()

	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		grid := gridFromStrings(rows)
		if s := analyzer.Analyze(sheetName, grid, len(rows)); s != nil {
			fs.Sheets = append(fs.Sheets, s)
		}
	}

	return fs, nil
}

// readExcelGrid 시트의 전체 그리드
func (r *Reader) readExcelGrid(path, sheet string) (model.Grid, error) {
	f, err := excelize.OpenFile(path, rawOptions)
	if err != nil {
		return nil, fmt.Errorf("파일을 열 수 없습니다: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("시트를 읽을 수 없습니다 (%s): %w", sheet, err)
	}
	return gridFromStrings(rows), nil
}
