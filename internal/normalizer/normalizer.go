package normalizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Sei-ceramic/excel-merger/internal/model"
)

// Context 정규화 대상의 출처 정보. 변경 기록에 그대로 들어간다.
type Context struct {
	SourceFile string
	SheetName  string
}

// NormalizeColumn 열 값들을 서식 기준에 맞춰 정규화한 새 슬라이스를 반환한다.
// 변환할 수 없는 값은 그대로 유지하며 오류로 취급하지 않는다.
// 실제 값이 바뀐 셀만 변경 기록에 남는다.
func NormalizeColumn(values []model.Cell, column string, profile model.FormatProfile, ctx Context, log *model.ChangeLog) []model.Cell {
	out := make([]model.Cell, len(values))

	for i, cell := range values {
		if cell.IsEmpty() {
			out[i] = cell
			continue
		}

		var normalized model.Cell
		var kind model.ChangeKind
		switch p := profile.(type) {
		case model.NumberProfile:
			normalized = normalizeNumber(cell, p)
			kind = model.ChangeNumberFormat
		case model.DateProfile:
			normalized = normalizeDate(cell, p)
			kind = model.ChangeDateFormat
		case model.TextProfile:
			normalized = normalizeText(cell, p)
			kind = model.ChangeTextFormat
		default:
			normalized = cell
		}

		out[i] = normalized
		if before, after := cell.String(), normalized.String(); before != after {
			log.Append(model.ChangeRecord{
				SourceFile:    ctx.SourceFile,
				SheetName:     ctx.SheetName,
				RowIndex:      i,
				ColumnName:    column,
				Kind:          kind,
				OriginalValue: before,
				NewValue:      after,
			})
		}
	}

	return out
}

// normalizeNumber 숫자 정규화: 천단위 구분자 제거 후 소수 자릿수 반올림
func normalizeNumber(cell model.Cell, p model.NumberProfile) model.Cell {
	var value float64
	switch cell.Kind {
	case model.CellNumber:
		value = cell.Number
	case model.CellText:
		text := strings.ReplaceAll(strings.TrimSpace(cell.Text), ",", "")
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return cell
		}
		value = parsed
	default:
		return cell
	}

	pow := math.Pow(10, float64(p.DecimalPlaces))
	return model.NumberCell(math.Round(value*pow) / pow)
}

// normalizeDate 날짜 정규화: 목표 레이아웃으로 재작성.
// 이미 목표 레이아웃인 문자열은 건드리지 않는다.
// 시리얼 변환은 숫자 셀에만 적용하며 숫자처럼 보이는 텍스트는 그대로 둔다.
func normalizeDate(cell model.Cell, p model.DateProfile) model.Cell {
	switch cell.Kind {
	case model.CellTime:
		return model.TextCell(cell.Time.Format(p.Layout))

	case model.CellNumber:
		if t, ok := serialToTime(cell.Number); ok {
			return model.TextCell(t.Format(p.Layout))
		}
		return cell

	case model.CellText:
		text := strings.TrimSpace(cell.Text)
		if isTargetLayout(text, p.Layout) {
			return cell
		}
		if t, ok := parseKnownLayouts(text); ok {
			return model.TextCell(t.Format(p.Layout))
		}
		if t, ok := parseDateDigits(text); ok {
			return model.TextCell(t.Format(p.Layout))
		}
		return cell
	}
	return cell
}

// normalizeText 텍스트 정규화: 공백 정리와 대소문자 규칙 적용
func normalizeText(cell model.Cell, p model.TextProfile) model.Cell {
	if cell.Kind != model.CellText {
		return cell
	}

	text := cell.Text
	if p.TrimSpace {
		text = strings.TrimSpace(text)
	}
	if p.CollapseSpaces {
		text = collapseRe.ReplaceAllString(text, " ")
	}
	switch p.CaseRule {
	case model.CaseUpper:
		text = strings.ToUpper(text)
	case model.CaseLower:
		text = strings.ToLower(text)
	case model.CaseTitle:
		text = titleCase(text)
	}

	if text == cell.Text {
		return cell
	}
	return model.TextCell(text)
}

// CleanTable 완전히 빈 행을 제거한다. 제거된 행이 있으면 행 수 변화를
// 시트 수준 기록(RowIndex -1) 하나로 남긴다.
func CleanTable(t *model.Table, ctx Context, log *model.ChangeLog) {
	before := len(t.Rows)
	rows := t.Rows[:0]
	sources := t.Sources[:0]

	for i, row := range t.Rows {
		if rowEmpty(row) {
			continue
		}
		rows = append(rows, row)
		sources = append(sources, t.Sources[i])
	}
	t.Rows = rows
	t.Sources = sources

	if removed := before - len(t.Rows); removed > 0 {
		log.Append(model.ChangeRecord{
			SourceFile:    ctx.SourceFile,
			SheetName:     ctx.SheetName,
			RowIndex:      -1,
			Kind:          model.ChangeRemoveEmptyRows,
			OriginalValue: fmt.Sprintf("%d행", before),
			NewValue:      fmt.Sprintf("%d행", len(t.Rows)),
		})
	}
}

func rowEmpty(row []model.Cell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
