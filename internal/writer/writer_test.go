package writer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Sei-ceramic/excel-merger/internal/model"
)

func TestWrite_RoundTrip(t *testing.T) {
	t.Parallel()

	sheets := []model.SheetData{
		{
			Name:    "직원정보",
			Columns: []string{"이름", "연봉", "입사일", "비고"},
			Rows: []([]model.Cell){
				{model.TextCell("홍길동"), model.NumberCell(52000000), model.TextCell("2023-03-15"), model.EmptyCell()},
				{model.TextCell("이철수"), model.NumberCell(50000000), model.TextCell("2023-04-01"), model.TextCell("출처:후보.xlsx")},
			},
		},
		{
			Name:    "부서목록",
			Columns: []string{"부서", "비고"},
			Rows: []([]model.Cell){
				{model.TextCell("개발팀"), model.EmptyCell()},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "결과.xlsx")
	if err := New().Write(path, sheets); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	list := f.GetSheetList()
	if len(list) != 2 || list[0] != "직원정보" || list[1] != "부서목록" {
		t.Fatalf("sheet list = %v", list)
	}

	rows, err := f.GetRows("직원정보")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if rows[0][0] != "이름" || rows[0][3] != "비고" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "홍길동" || rows[1][1] != "52000000" {
		t.Fatalf("data row = %v", rows[1])
	}
	if rows[2][3] != "출처:후보.xlsx" {
		t.Fatalf("annotation = %v", rows[2])
	}

	// 열 너비: 내용 최대 길이 + 2
	width, err := f.GetColWidth("직원정보", "D")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if width < 3 || width > 50 {
		t.Fatalf("unexpected width: %v", width)
	}
}

func TestWrite_EmptySheets(t *testing.T) {
	t.Parallel()

	if err := New().Write(filepath.Join(t.TempDir(), "결과.xlsx"), nil); err == nil {
		t.Fatalf("empty sheet list must fail")
	}
}

func TestWrite_TimeCell(t *testing.T) {
	t.Parallel()

	sheets := []model.SheetData{{
		Name:    "기록",
		Columns: []string{"시각", "비고"},
		Rows: []([]model.Cell){
			{model.TimeCell(time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)), model.EmptyCell()},
		},
	}}

	path := filepath.Join(t.TempDir(), "기록.xlsx")
	if err := New().Write(path, sheets); err != nil {
		t.Fatalf("Write: %v", err)
	}
}
