package normalizer

import (
	"regexp"
	"strings"
	"time"
)

// 기준 서식 추출에 사용하는 대표 날짜 레이아웃 (ISO 우선)
var canonicalLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"2006.01.02",
}

// 정규화 시 시도하는 확장 레이아웃 목록 (순서대로 시도)
var knownLayouts = []string{
	// 기본 형식들
	"2006-01-02", "2006/01/02", "01/02/2006", "02/01/2006",
	"2006.01.02", "01.02.2006", "02.01.2006",
	// 시간이 포함된 형식들
	"2006-01-02 15:04:05", "2006/01/02 15:04:05",
	"2006.01.02 15:04:05", "01.02.2006 15:04:05",
	// 한국어 형식들
	"2006년 1월 2일", "2006년1월2일",
	// 축약된 연도 형식들
	"06-01-02", "06/01/02", "01/02/06", "02/01/06", "06.01.02",
	// 연속된 숫자
	"20060102", "060102",
	// 영어 월명
	"January 2, 2006", "Jan 2, 2006",
}

// 엑셀 시리얼 날짜 범위와 기준일.
// 기준일 1899-12-30은 1900년 윤년 버그를 보정한 값으로, 시리얼 1 = 1899-12-31.
const (
	serialDateMin = 1
	serialDateMax = 2958465
)

var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var digitRunRe = regexp.MustCompile(`\d+`)

// serialToTime 엑셀 시리얼 값을 날짜로 변환
func serialToTime(serial float64) (time.Time, bool) {
	if serial < serialDateMin || serial > serialDateMax {
		return time.Time{}, false
	}
	return serialEpoch.AddDate(0, 0, int(serial)), true
}

// isTargetLayout 문자열이 이미 목표 레이아웃 그대로인지 확인 (파싱 후 재출력 비교).
// 2자리 연도 레이아웃에서는 세기가 다른 날짜도 통과할 수 있다.
func isTargetLayout(s, layout string) bool {
	t, err := time.Parse(layout, s)
	if err != nil {
		return false
	}
	return t.Format(layout) == s
}

// parseKnownLayouts 확장 레이아웃 목록으로 파싱 시도
func parseKnownLayouts(s string) (time.Time, bool) {
	for _, layout := range knownLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDateDigits 숫자 묶음 위치로 연/월/일을 추정하는 휴리스틱 파싱.
// 4자리 묶음의 위치로 연도를 정하고, 없으면 2자리 연도를 50 기준으로 보정한다.
func parseDateDigits(s string) (time.Time, bool) {
	runs := digitRunRe.FindAllString(s, -1)
	if len(runs) < 3 {
		return time.Time{}, false
	}

	var year, month, day int

	switch {
	case len(runs[0]) == 4:
		year, month, day = atoi(runs[0]), atoi(runs[1]), atoi(runs[2])
	case len(runs[len(runs)-1]) == 4:
		month, day, year = atoi(runs[0]), atoi(runs[1]), atoi(runs[2])
	case len(runs[1]) == 4:
		day, year, month = atoi(runs[0]), atoi(runs[1]), atoi(runs[2])
	default:
		// 2자리 연도: 50 미만은 2000년대, 이상은 1900년대
		yearCandidate := atoi(runs[len(runs)-1])
		if len(runs[len(runs)-1]) != 2 {
			yearCandidate = atoi(runs[0])
		}
		if yearCandidate < 50 {
			year = 2000 + yearCandidate
		} else {
			year = 1900 + yearCandidate
		}

		if len(runs[0]) == 2 && yearCandidate == atoi(runs[0]) {
			month, day = atoi(runs[1]), atoi(runs[2])
		} else {
			month, day = atoi(runs[0]), atoi(runs[1])
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2100 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date는 2월 30일 같은 값을 다음 달로 넘기므로 역검증한다
	if int(t.Month()) != month || t.Day() != day || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n := 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0
		}
		n = n*10 + int(ch-'0')
	}
	return n
}

// collapseRe 연속 공백 압축용, multiSpaceRe 내부 연속 공백 탐지용
var (
	collapseRe   = regexp.MustCompile(`\s+`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// titleCase 단어 첫 글자만 대문자로 변환
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		}
		words[i] = string(runes)
	}
	// Fields는 선행/후행 공백을 버리므로 원본의 공백 구조를 보존한다
	if len(words) == 0 {
		return s
	}
	return rebuildSpacing(s, words)
}

// rebuildSpacing 원본 문자열의 공백 배치를 유지한 채 단어만 교체
func rebuildSpacing(original string, words []string) string {
	var b strings.Builder
	wordIdx := 0
	inWord := false
	for _, r := range original {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inWord = false
			b.WriteRune(r)
			continue
		}
		if !inWord {
			if wordIdx < len(words) {
				b.WriteString(words[wordIdx])
				wordIdx++
			}
			inWord = true
		}
	}
	return b.String()
}
