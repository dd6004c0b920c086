package normalizer

import (
	"strings"
	"time"
	"unicode"

	"github.com/Sei-ceramic/excel-merger/internal/model"
)

// 열별 서식 추출에 사용하는 최대 샘플 수
const sampleLimit = 10

// ExtractProfiles 기준 데이터 행으로부터 열별 서식 기준을 추출한다.
// 키는 열 이름이며 모든 열이 기준을 갖는다.
func ExtractProfiles(columns []string, types map[string]model.DataType, rows model.Grid) map[string]model.FormatProfile {
	profiles := make(map[string]model.FormatProfile, len(columns))
	for i, col := range columns {
		samples := columnSamples(rows, i)
		profiles[col] = Extract(samples, types[col])
	}
	return profiles
}

// Extract 샘플 값들로부터 해당 타입의 서식 기준을 추출한다
func Extract(samples []model.Cell, dataType model.DataType) model.FormatProfile {
	switch dataType {
	case model.DataNumber:
		return extractNumberProfile(samples)
	case model.DataDate:
		return extractDateProfile(samples)
	default:
		return extractTextProfile(samples)
	}
}

func columnSamples(rows model.Grid, col int) []model.Cell {
	var samples []model.Cell
	for _, row := range rows {
		if len(samples) >= sampleLimit {
			break
		}
		if col >= len(row) {
			continue
		}
		if cell := row[col]; !cell.IsEmpty() {
			samples = append(samples, cell)
		}
	}
	return samples
}

// extractNumberProfile 관측된 최대 소수 자릿수와 천단위 구분자 사용 여부를 추출
func extractNumberProfile(samples []model.Cell) model.NumberProfile {
	profile := model.NumberProfile{}

	for _, cell := range samples {
		var text string
		switch cell.Kind {
		case model.CellNumber:
			text = cell.String()
		case model.CellText:
			text = strings.TrimSpace(cell.Text)
		default:
			continue
		}

		if strings.Contains(text, ",") {
			profile.ThousandsSeparator = true
			text = strings.ReplaceAll(text, ",", "")
		}
		if dot := strings.Index(text, "."); dot >= 0 {
			if places := len(text) - dot - 1; places > profile.DecimalPlaces {
				profile.DecimalPlaces = places
			}
		}
	}

	return profile
}

// extractDateProfile 대표 레이아웃별 매칭 수를 세어 가장 많이 맞는 레이아웃을 고른다.
// 동점이면 목록 앞쪽(ISO 우선)이 이긴다. 아무것도 맞지 않으면 ISO.
func extractDateProfile(samples []model.Cell) model.DateProfile {
	counts := make([]int, len(canonicalLayouts))

	for _, cell := range samples {
		switch cell.Kind {
		case model.CellTime:
			counts[0]++
		case model.CellText:
			text := strings.TrimSpace(cell.Text)
			for i, layout := range canonicalLayouts {
				if _, err := time.Parse(layout, text); err == nil {
					counts[i]++
					break
				}
			}
		}
	}

	best := 0
	for i, n := range counts {
		if n > counts[best] {
			best = i
		}
	}
	return model.DateProfile{Layout: canonicalLayouts[best]}
}

// extractTextProfile 공백 정리 여부는 샘플에서 관측된 경우에만 켜고,
// 대소문자 규칙은 알파벳이 있는 샘플 전체가 한 가지 규칙을 따를 때만 채택한다.
func extractTextProfile(samples []model.Cell) model.TextProfile {
	var profile model.TextProfile

	allUpper, allLower, allTitle := true, true, true
	seen := 0
	for _, cell := range samples {
		if cell.Kind != model.CellText {
			continue
		}
		if strings.TrimSpace(cell.Text) != cell.Text {
			profile.TrimSpace = true
		}
		text := strings.TrimSpace(cell.Text)
		if multiSpaceRe.MatchString(text) {
			profile.CollapseSpaces = true
		}
		if !hasLetter(text) {
			continue
		}
		seen++
		if text != strings.ToUpper(text) {
			allUpper = false
		}
		if text != strings.ToLower(text) {
			allLower = false
		}
		if text != titleCase(text) {
			allTitle = false
		}
	}

	if seen > 0 {
		switch {
		case allUpper:
			profile.CaseRule = model.CaseUpper
		case allLower:
			profile.CaseRule = model.CaseLower
		case allTitle:
			profile.CaseRule = model.CaseTitle
		}
	}
	return profile
}

// hasLetter 대소문자 구분이 있는 문자(라틴 등)가 포함되어 있는지.
// 한글처럼 대소문자가 없는 문자만 있으면 대소문자 규칙을 적용하지 않는다.
func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsLower(r) {
			return true
		}
	}
	return false
}
