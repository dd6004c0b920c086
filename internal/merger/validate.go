package merger

import (
	"fmt"
	"strings"

	"github.com/Sei-ceramic/excel-merger/internal/model"
)

// checkQuality 통합 결과 품질 검증.
// 기준 시트별로 존재/비어있음/열 누락/중복 행을 확인하고 문제 목록을 반환한다.
// 중복 비교는 비고 열을 제외한 데이터 열만 본다.
func checkQuality(ref *model.FileStructure, merged []*mergedSheet) []string {
	var issues []string

	byName := make(map[string]*mergedSheet, len(merged))
	for _, m := range merged {
		byName[m.data.Name] = m
	}

	for _, sheet := range ref.Sheets {
		m, ok := byName[sheet.Name]
		if !ok {
			issues = append(issues, fmt.Sprintf("결과에 시트가 없습니다: %s", sheet.Name))
			continue
		}
		if len(m.data.Rows) == 0 {
			issues = append(issues, fmt.Sprintf("시트가 비어 있습니다: %s", sheet.Name))
			continue
		}

		have := make(map[string]struct{}, len(m.data.Columns))
		for _, col := range m.data.Columns {
			have[col] = struct{}{}
		}
		for _, col := range sheet.Columns {
			if _, ok := have[col]; !ok {
				issues = append(issues, fmt.Sprintf("시트 %s에 열이 없습니다: %s", sheet.Name, col))
			}
		}

		if n := countDuplicateRows(m.data); n > 0 {
			issues = append(issues, fmt.Sprintf("시트 %s에 중복 행 %d건", sheet.Name, n))
		}
	}

	return issues
}

// countDuplicateRows 데이터 열이 완전히 같은 행의 수 (첫 출현 제외)
func countDuplicateRows(data model.SheetData) int {
	width := len(data.Columns) - 1 // 비고 열 제외
	if width < 1 {
		return 0
	}

	seen := make(map[string]struct{}, len(data.Rows))
	duplicates := 0
	for _, row := range data.Rows {
		parts := make([]string, 0, width)
		for i := 0; i < width && i < len(row); i++ {
			parts = append(parts, row[i].String())
		}
		key := strings.Join(parts, "\x1f")
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}
