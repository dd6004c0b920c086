package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Sei-ceramic/excel-merger/internal/model"
)

const (
	maxAnalysisRows = 100 // 구조 분석에 사용하는 최대 행 수
	maxAnalysisCols = 50  // 구조 분석에 사용하는 최대 열 수
	headerScanRows  = 10  // 헤더 탐지 대상 상위 행 수
	headerMinScore  = 0.5 // 헤더 판정 최소 점수
	typeSampleSize  = 10  // 타입 추론 샘플 수
	maxSampleRows   = 5   // 구조에 보관하는 샘플 행 수
)

// 날짜 문자열 판정용 고정 패턴 (행 시작 기준)
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}`),
	regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`),
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}`),
	regexp.MustCompile(`^\d{4}\.\d{1,2}\.\d{1,2}`),
}

// Analyze 시트의 원시 그리드에서 구조를 추론한다.
// totalRows는 파일 메타데이터에서 얻은 전체 행 수.
// 빈 그리드이거나 헤더를 찾지 못하면 nil을 반환한다 (시트 단위의 복구 가능한 조건).
func Analyze(name string, grid model.Grid, totalRows int) *model.SheetStructure {
	grid = clip(grid)
	if len(grid) == 0 {
		return nil
	}

	headerRow := detectHeaderRow(grid)
	if headerRow < 0 {
		return nil
	}

	columns := columnNames(grid[headerRow])
	dataStart := headerRow + 1

	rowCount := totalRows - dataStart
	if rowCount < 0 {
		rowCount = 0
	}

	sampleEnd := dataStart + maxSampleRows
	if sampleEnd > len(grid) {
		sampleEnd = len(grid)
	}
	var samples model.Grid
	if dataStart < len(grid) {
		samples = grid[dataStart:sampleEnd]
	}

	return &model.SheetStructure{
		Name:        name,
		HeaderRow:   headerRow,
		DataStart:   dataStart,
		Columns:     columns,
		RowCount:    rowCount,
		ColumnTypes: inferColumnTypes(grid, dataStart, columns),
		SampleRows:  samples,
	}
}

// clip 분석 대상 범위를 100행 x 50열로 제한
func clip(grid model.Grid) model.Grid {
	if len(grid) > maxAnalysisRows {
		grid = grid[:maxAnalysisRows]
	}
	out := make(model.Grid, len(grid))
	for i, row := range grid {
		if len(row) > maxAnalysisCols {
			row = row[:maxAnalysisCols]
		}
		out[i] = row
	}
	return out
}

// detectHeaderRow 헤더 행 자동 탐지.
// 상위 10행에 대해 텍스트 비율 40% + 고유값 비율 30% + 빈 셀 비율(역산) 20% + 위치 점수 10%로
// 점수를 계산하고, 최고 점수가 0.5를 넘지 못하면 -1을 반환한다.
func detectHeaderRow(grid model.Grid) int {
	bestRow := -1
	bestScore := 0.0

	limit := len(grid)
	if limit > headerScanRows {
		limit = headerScanRows
	}

	for idx := 0; idx < limit; idx++ {
		row := grid[idx]

		var nonEmpty []model.Cell
		for _, cell := range row {
			if !cell.IsEmpty() {
				nonEmpty = append(nonEmpty, cell)
			}
		}
		if len(nonEmpty) < 2 {
			continue
		}

		textCount := 0
		unique := make(map[string]struct{}, len(nonEmpty))
		for _, cell := range nonEmpty {
			if cell.Kind == model.CellText {
				textCount++
			}
			unique[cell.String()] = struct{}{}
		}

		textRatio := float64(textCount) / float64(len(nonEmpty))
		uniqueRatio := float64(len(unique)) / float64(len(nonEmpty))
		emptyRatio := float64(len(row)-len(nonEmpty)) / float64(len(row))
		positionScore := float64(headerScanRows-idx) / float64(headerScanRows)

		score := textRatio*0.4 + uniqueRatio*0.3 + (1-emptyRatio)*0.2 + positionScore*0.1
		if score > bestScore {
			bestScore = score
			bestRow = idx
		}
	}

	if bestScore <= headerMinScore {
		return -1
	}
	return bestRow
}

// columnNames 헤더 셀에서 열 이름 추출. 빈 헤더는 "열{N}"으로 대체한다.
func columnNames(header []model.Cell) []string {
	names := make([]string, len(header))
	for i, cell := range header {
		if cell.IsEmpty() {
			names[i] = fmt.Sprintf("열%d", i+1)
			continue
		}
		names[i] = cell.String()
	}
	return names
}

// inferColumnTypes 열별 데이터 타입 추론
func inferColumnTypes(grid model.Grid, dataStart int, columns []string) map[string]model.DataType {
	types := make(map[string]model.DataType, len(columns))

	sampleLimit := dataStart + typeSampleSize
	if sampleLimit > len(grid) {
		sampleLimit = len(grid)
	}

	for colIdx, colName := range columns {
		var samples []model.Cell
		for rowIdx := dataStart; rowIdx < sampleLimit; rowIdx++ {
			row := grid[rowIdx]
			if colIdx < len(row) && !row[colIdx].IsEmpty() {
				samples = append(samples, row[colIdx])
			}
		}
		types[colName] = InferType(samples)
	}

	return types
}

// InferType 샘플 값들로부터 데이터 타입 추론.
// 숫자 비율 70% 초과면 number, 날짜 비율 50% 초과면 date, 그 외 text.
// 샘플이 없으면 text.
func InferType(samples []model.Cell) model.DataType {
	if len(samples) == 0 {
		return model.DataText
	}

	numberCount := 0
	dateCount := 0

	for _, cell := range samples {
		switch cell.Kind {
		case model.CellNumber:
			numberCount++
		case model.CellTime:
			dateCount++
		case model.CellText:
			if isNumericString(cell.Text) {
				numberCount++
			} else if IsDateString(cell.Text) {
				dateCount++
			}
		}
	}

	total := float64(len(samples))
	if float64(numberCount)/total > 0.7 {
		return model.DataNumber
	}
	if float64(dateCount)/total > 0.5 {
		return model.DataDate
	}
	return model.DataText
}

// isNumericString 천단위 구분자를 제거하면 숫자로 해석되는 문자열 여부
func isNumericString(s string) bool {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// IsDateString 고정된 날짜 패턴 중 하나와 일치하는 문자열 여부
func IsDateString(s string) bool {
	s = strings.TrimSpace(s)
	for _, re := range datePatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
