package merger

import (
	"fmt"
	"strings"

	"github.com/Sei-ceramic/excel-merger/internal/matcher"
	"github.com/Sei-ceramic/excel-merger/internal/model"
	"github.com/Sei-ceramic/excel-merger/internal/normalizer"
)

// AnnotationColumn 출처와 변경 내역을 담는 비고 열 이름
const AnnotationColumn = "비고"

// mergedSheet 기준 시트 하나에 대한 통합 작업 상태
type mergedSheet struct {
	ref      *refSheet
	segments []*segment
	data     model.SheetData
}

// segment 후보 파일 하나가 기준 시트에 기여한 데이터 조각.
// table은 기준 열 순서로 정렬/정규화된 상태이고 행별 출처는 table.Sources가 담는다.
// rowNotes는 행별 변경 내역이다.
type segment struct {
	mappingNotes []string
	table        *model.Table
	rowNotes     map[int][]string
}

type segmentInput struct {
	source     string
	refStruct  *model.SheetStructure
	candStruct *model.SheetStructure
	rows       model.Grid
	profiles   map[string]model.FormatProfile
	threshold  float64
	log        *model.ChangeLog
}

var kindNotes = map[model.ChangeKind]string{
	model.ChangeNumberFormat: "숫자형식변경",
	model.ChangeDateFormat:   "날짜형식변경",
	model.ChangeTextFormat:   "텍스트정리",
}

// buildSegment 후보 시트 데이터를 기준 열 순서로 정렬하고 정규화한다.
// 매칭되지 않은 기준 열은 빈 값으로 채우며, 시트/열 이름이 바뀐 경우와
// 값이 바뀐 셀을 모두 변경 기록으로 남긴다.
func buildSegment(in segmentInput) *segment {
	seg := &segment{
		rowNotes: make(map[int][]string),
	}
	nctx := normalizer.Context{SourceFile: in.source, SheetName: in.candStruct.Name}

	// 시트명 재매핑 기록
	if in.candStruct.Name != in.refStruct.Name {
		in.log.Append(model.ChangeRecord{
			SourceFile:    in.source,
			SheetName:     in.candStruct.Name,
			RowIndex:      -1,
			Kind:          model.ChangeSheetMapping,
			OriginalValue: in.candStruct.Name,
			NewValue:      in.refStruct.Name,
		})
		seg.mappingNotes = append(seg.mappingNotes,
			fmt.Sprintf("시트매칭(%s→%s)", in.candStruct.Name, in.refStruct.Name))
	}

	colMap := matcher.MatchColumns(in.refStruct.Columns, in.candStruct.Columns, in.threshold)

	// 열제목 재매핑 기록
	candIndex := make(map[string]int, len(in.candStruct.Columns))
	for i, col := range in.candStruct.Columns {
		candIndex[col] = i
	}
	for _, refCol := range in.refStruct.Columns {
		candCol, ok := colMap[refCol]
		if !ok || candCol == refCol {
			continue
		}
		in.log.Append(model.ChangeRecord{
			SourceFile:    in.source,
			SheetName:     in.candStruct.Name,
			RowIndex:      -1,
			ColumnName:    refCol,
			Kind:          model.ChangeColumnMapping,
			OriginalValue: candCol,
			NewValue:      refCol,
		})
		seg.mappingNotes = append(seg.mappingNotes,
			fmt.Sprintf("열매칭(%s→%s)", candCol, refCol))
	}

	// 기준 열 순서로 정렬 (매칭 안 된 열은 빈 값), 행별 출처는 테이블이 담는다
	tbl := model.NewTable(in.refStruct.Columns)
	for _, row := range in.rows {
		out := make([]model.Cell, len(tbl.Columns))
		for j, refCol := range tbl.Columns {
			out[j] = model.EmptyCell()
			if candCol, ok := colMap[refCol]; ok {
				if idx, ok := candIndex[candCol]; ok && idx < len(row) {
					out[j] = row[idx]
				}
			}
		}
		tbl.AppendRow(out, in.source)
	}

	// 완전히 빈 행 제거 (시트 수준 기록 포함)
	normalizer.CleanTable(tbl, nctx, in.log)

	// 열 단위 정규화. 새로 추가된 기록으로 행별 비고를 만든다.
	mark := in.log.Len()
	for _, refCol := range tbl.Columns {
		j := tbl.Column(refCol)
		profile, ok := in.profiles[refCol]
		if !ok || j < 0 {
			continue
		}
		values := make([]model.Cell, tbl.Len())
		for i := range tbl.Rows {
			values[i] = tbl.Rows[i][j]
		}
		normalized := normalizer.NormalizeColumn(values, refCol, profile, nctx, in.log)
		for i := range tbl.Rows {
			tbl.Rows[i][j] = normalized[i]
		}
	}
	for _, rec := range in.log.Records()[mark:] {
		if rec.RowIndex < 0 {
			continue
		}
		note, ok := kindNotes[rec.Kind]
		if !ok {
			continue
		}
		seg.rowNotes[rec.RowIndex] = appendUnique(seg.rowNotes[rec.RowIndex], note)
	}

	seg.table = tbl
	return seg
}

// combineSheet 기준 데이터를 맨 앞에 두고 후보 조각들을 입력 순서대로 이어붙인 뒤
// 비고 열을 추가한다. 기준 행의 비고는 비어 있다.
func combineSheet(m *mergedSheet) model.SheetData {
	refStruct := m.ref.structure
	width := len(refStruct.Columns)

	data := model.SheetData{
		Name:    refStruct.Name,
		Columns: append(append([]string{}, refStruct.Columns...), AnnotationColumn),
	}

	for _, row := range m.ref.rows {
		data.Rows = append(data.Rows, append(fitWidth(row, width), model.EmptyCell()))
	}

	for _, seg := range m.segments {
		for i, row := range seg.table.Rows {
			notes := make([]string, 0, 2+len(seg.mappingNotes))
			notes = append(notes, "출처:"+seg.table.Sources[i])
			notes = append(notes, seg.mappingNotes...)
			notes = append(notes, seg.rowNotes[i]...)
			annotation := model.TextCell(strings.Join(notes, "; "))
			data.Rows = append(data.Rows, append(fitWidth(row, width), annotation))
		}
	}

	return data
}

// fitWidth 행 길이를 기준 열 수에 맞춘다 (부족하면 빈 셀, 넘치면 잘라냄)
func fitWidth(row []model.Cell, width int) []model.Cell {
	out := make([]model.Cell, width)
	for i := 0; i < width; i++ {
		if i < len(row) {
			out[i] = row[i]
		} else {
			out[i] = model.EmptyCell()
		}
	}
	return out
}

func appendUnique(notes []string, note string) []string {
	for _, n := range notes {
		if n == note {
			return notes
		}
	}
	return append(notes, note)
}
