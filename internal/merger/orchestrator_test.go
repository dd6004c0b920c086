package merger

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sei-ceramic/excel-merger/internal/analyzer"
	"github.com/Sei-ceramic/excel-merger/internal/model"
)

// fakeReader 메모리 그리드 기반 테스트용 리더. 실제 리더처럼 구조 분석을 수행한다.
type fakeReader struct {
	grids map[string]map[string]model.Grid
	order map[string][]string
	errs  map[string]error
	gate  chan struct{}
}

func (r *fakeReader) ReadStructure(path string) (*model.FileStructure, error) {
	if r.gate != nil {
		<-r.gate
	}
	if err := r.errs[path]; err != nil {
		return nil, err
	}
	fs := &model.FileStructure{Path: path, DisplayName: filepath.Base(path)}
	for _, name := range r.order[path] {
		grid := r.grids[path][name]
		if s := analyzer.Analyze(name, grid, len(grid)); s != nil {
			fs.Sheets = append(fs.Sheets, s)
		}
	}
	return fs, nil
}

func (r *fakeReader) ReadGrid(path, sheet string) (model.Grid, error) {
	return r.grids[path][sheet], nil
}

type fakeWriter struct {
	called bool
	path   string
	sheets []model.SheetData
	err    error
}

func (w *fakeWriter) Write(path string, sheets []model.SheetData) error {
	if w.err != nil {
		return w.err
	}
	w.called = true
	w.path = path
	w.sheets = sheets
	return nil
}

func runMerge(t *testing.T, c *Coordinator, req MergeRequest) *Result {
	t.Helper()

	var last ProgressEvent
	for ev := range c.Merge(req) {
		last = ev
	}
	result, ok := last.Data.(*Result)
	if !ok {
		t.Fatalf("terminal event missing result: %+v", last)
	}
	return result
}

func refGrid() model.Grid {
	return model.Grid{
		{model.TextCell("이름"), model.TextCell("부서"), model.TextCell("연봉")},
		{model.TextCell("홍길동"), model.TextCell("개발팀"), model.NumberCell(52000000)},
		{model.TextCell("김영희"), model.TextCell("기획팀"), model.NumberCell(48000000)},
	}
}

func TestMerge_SynonymEndToEnd(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{
		grids: map[string]map[string]model.Grid{
			"기준.xlsx": {"Employees": refGrid()},
			"후보.xlsx": {"직원정보": {
				{model.TextCell("성명"), model.TextCell("소속부서"), model.TextCell("급여")},
				{model.TextCell("이철수"), model.TextCell("영업팀"), model.TextCell("50,000,000")},
				{model.TextCell("박민수"), model.TextCell("디자인팀"), model.NumberCell(45000000)},
			}},
		},
		order: map[string][]string{
			"기준.xlsx": {"Employees"},
			"후보.xlsx": {"직원정보"},
		},
	}
	writer := &fakeWriter{}
	c := NewCoordinator(reader, writer, DefaultOptions())

	result := runMerge(t, c, MergeRequest{
		ReferencePath:  "기준.xlsx",
		CandidatePaths: []string{"후보.xlsx"},
		OutputPath:     "결과.xlsx",
	})

	if result.State != StateCompleted {
		t.Fatalf("state = %s (%s), want completed", result.State, result.Message)
	}
	if !writer.called || writer.path != "결과.xlsx" {
		t.Fatalf("writer not invoked correctly: %+v", writer)
	}
	if len(writer.sheets) != 1 || writer.sheets[0].Name != "Employees" {
		t.Fatalf("unexpected output sheets: %+v", writer.sheets)
	}

	sheet := writer.sheets[0]
	wantCols := []string{"이름", "부서", "연봉", AnnotationColumn}
	for i, col := range wantCols {
		if sheet.Columns[i] != col {
			t.Fatalf("columns = %v, want %v", sheet.Columns, wantCols)
		}
	}
	if len(sheet.Rows) != 4 {
		t.Fatalf("row count = %d, want 4", len(sheet.Rows))
	}

	// 기준 행이 먼저, 비고는 비어 있음
	if sheet.Rows[0][0].Text != "홍길동" || !sheet.Rows[0][3].IsEmpty() {
		t.Fatalf("reference row corrupted: %+v", sheet.Rows[0])
	}

	// 후보 행: 열 재배치 + 숫자 정규화 + 비고
	row := sheet.Rows[2]
	if row[0].Text != "이철수" || row[1].Text != "영업팀" {
		t.Fatalf("candidate row misaligned: %+v", row)
	}
	if row[2].Kind != model.CellNumber || row[2].Number != 50000000 {
		t.Fatalf("급여 not normalized: %+v", row[2])
	}
	note := row[3].Text
	for _, want := range []string{"출처:후보.xlsx", "시트매칭(직원정보→Employees)", "열매칭(성명→이름)", "숫자형식변경"} {
		if !strings.Contains(note, want) {
			t.Fatalf("annotation %q missing %q", note, want)
		}
	}
	if strings.Contains(sheet.Rows[3][3].Text, "숫자형식변경") {
		t.Fatalf("unchanged row must not carry a format note: %q", sheet.Rows[3][3].Text)
	}

	summary := result.Log.Summary()
	if summary[model.ChangeSheetMapping] != 1 {
		t.Fatalf("sheet_mapping records = %d, want 1", summary[model.ChangeSheetMapping])
	}
	if summary[model.ChangeColumnMapping] != 3 {
		t.Fatalf("column_mapping records = %d, want 3", summary[model.ChangeColumnMapping])
	}
	if summary[model.ChangeNumberFormat] != 1 {
		t.Fatalf("number_format records = %d, want 1", summary[model.ChangeNumberFormat])
	}

	// 보고서에도 유형별 개수가 담긴다
	if result.Report.Summary[model.ChangeColumnMapping] != 3 ||
		result.Report.Summary[model.ChangeNumberFormat] != 1 {
		t.Fatalf("report summary = %v", result.Report.Summary)
	}
	if result.Report.ProcessedFiles != 1 || result.Report.SkippedFiles != 0 {
		t.Fatalf("unexpected report: %+v", result.Report)
	}
}

func TestMerge_EmptyRowsDroppedWithSource(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{
		grids: map[string]map[string]model.Grid{
			"기준.xlsx": {"Employees": refGrid()},
			"후보.xlsx": {"Employees": {
				{model.TextCell("이름"), model.TextCell("부서"), model.TextCell("연봉")},
				{model.TextCell("이철수"), model.TextCell("영업팀"), model.NumberCell(50000000)},
				{model.EmptyCell(), model.TextCell("   "), model.EmptyCell()},
				{model.TextCell("박민수"), model.TextCell("디자인팀"), model.NumberCell(45000000)},
			}},
		},
		order: map[string][]string{
			"기준.xlsx": {"Employees"},
			"후보.xlsx": {"Employees"},
		},
	}
	writer := &fakeWriter{}
	c := NewCoordinator(reader, writer, DefaultOptions())

	result := runMerge(t, c, MergeRequest{
		ReferencePath:  "기준.xlsx",
		CandidatePaths: []string{"후보.xlsx"},
		OutputPath:     "결과.xlsx",
	})

	if result.State != StateCompleted {
		t.Fatalf("state = %s (%s), want completed", result.State, result.Message)
	}

	// 기준 2행 + 후보 2행 (빈 행 제거됨)
	sheet := writer.sheets[0]
	if len(sheet.Rows) != 4 {
		t.Fatalf("row count = %d, want 4", len(sheet.Rows))
	}
	for _, row := range sheet.Rows[2:] {
		if !strings.Contains(row[3].Text, "출처:후보.xlsx") {
			t.Fatalf("candidate row missing source note: %q", row[3].Text)
		}
	}

	var rec *model.ChangeRecord
	for i, r := range result.Log.Records() {
		if r.Kind == model.ChangeRemoveEmptyRows {
			rec = &result.Log.Records()[i]
		}
	}
	if rec == nil {
		t.Fatalf("remove_empty_rows record missing")
	}
	if rec.RowIndex != -1 || rec.OriginalValue != "3행" || rec.NewValue != "2행" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestMerge_DuplicateRowsWarning(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{
		grids: map[string]map[string]model.Grid{
			"기준.xlsx": {"목록": {
				{model.TextCell("이름"), model.TextCell("부서")},
				{model.TextCell("홍길동"), model.TextCell("개발팀")},
				{model.TextCell("홍길동"), model.TextCell("개발팀")},
			}},
		},
		order: map[string][]string{"기준.xlsx": {"목록"}},
	}
	writer := &fakeWriter{}
	c := NewCoordinator(reader, writer, DefaultOptions())

	result := runMerge(t, c, MergeRequest{ReferencePath: "기준.xlsx", OutputPath: "결과.xlsx"})

	if result.State != StateWithWarnings {
		t.Fatalf("state = %s, want completed_with_warnings", result.State)
	}
	if !writer.called {
		t.Fatalf("warnings must not prevent saving")
	}

	found := false
	for _, issue := range result.Report.Issues {
		if strings.Contains(issue, "중복 행 1건") {
			found = true
		}
	}
	if !found {
		t.Fatalf("duplicate issue missing: %v", result.Report.Issues)
	}
}

func TestMerge_NoMatchedSheetsNonFatal(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{
		grids: map[string]map[string]model.Grid{
			"기준.xlsx": {"Employees": refGrid()},
			"재고.xlsx": {"재고목록": {
				{model.TextCell("품명"), model.TextCell("수량")},
				{model.TextCell("의자"), model.NumberCell(12)},
			}},
		},
		order: map[string][]string{
			"기준.xlsx": {"Employees"},
			"재고.xlsx": {"재고목록"},
		},
	}
	writer := &fakeWriter{}
	c := NewCoordinator(reader, writer, DefaultOptions())

	result := runMerge(t, c, MergeRequest{
		ReferencePath:  "기준.xlsx",
		CandidatePaths: []string{"재고.xlsx"},
		OutputPath:     "결과.xlsx",
	})

	if result.State != StateWithWarnings {
		t.Fatalf("state = %s, want completed_with_warnings", result.State)
	}
	if !writer.called {
		t.Fatalf("run must still save reference data")
	}
	if result.Report.SkippedFiles != 1 || result.Report.ProcessedFiles != 0 {
		t.Fatalf("unexpected report: %+v", result.Report)
	}
	// 기준 데이터는 그대로 저장된다
	if len(writer.sheets[0].Rows) != 2 {
		t.Fatalf("reference rows = %d, want 2", len(writer.sheets[0].Rows))
	}
}

func TestMerge_CandidateReadErrorSkipsFile(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{
		grids: map[string]map[string]model.Grid{
			"기준.xlsx": {"Employees": refGrid()},
		},
		order: map[string][]string{"기준.xlsx": {"Employees"}},
		errs:  map[string]error{"깨진파일.xlsx": errors.New("zip: not a valid zip file")},
	}
	writer := &fakeWriter{}
	c := NewCoordinator(reader, writer, DefaultOptions())

	result := runMerge(t, c, MergeRequest{
		ReferencePath:  "기준.xlsx",
		CandidatePaths: []string{"깨진파일.xlsx"},
		OutputPath:     "결과.xlsx",
	})

	if result.State != StateWithWarnings {
		t.Fatalf("state = %s, want completed_with_warnings", result.State)
	}
	if result.Report.SkippedFiles != 1 {
		t.Fatalf("unexpected report: %+v", result.Report)
	}
}

func TestMerge_ReferenceFailureFatal(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{
		errs: map[string]error{"기준.xlsx": errors.New("no such file")},
	}
	writer := &fakeWriter{}
	c := NewCoordinator(reader, writer, DefaultOptions())

	result := runMerge(t, c, MergeRequest{ReferencePath: "기준.xlsx", OutputPath: "결과.xlsx"})

	if result.State != StateFailed {
		t.Fatalf("state = %s, want failed", result.State)
	}
	if writer.called {
		t.Fatalf("failed run must not save")
	}
}

func TestMerge_Cancellation(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	reader := &fakeReader{
		grids: map[string]map[string]model.Grid{
			"기준.xlsx": {"Employees": refGrid()},
		},
		order: map[string][]string{"기준.xlsx": {"Employees"}},
		gate:  gate,
	}
	writer := &fakeWriter{}
	c := NewCoordinator(reader, writer, DefaultOptions())

	events := c.Merge(MergeRequest{ReferencePath: "기준.xlsx", OutputPath: "결과.xlsx"})
	c.Cancel()
	close(gate)

	var last ProgressEvent
	for ev := range events {
		last = ev
	}
	result := last.Data.(*Result)
	if result.State != StateCancelled {
		t.Fatalf("state = %s, want cancelled", result.State)
	}
	if writer.called {
		t.Fatalf("cancelled run must not save")
	}
}
