package matcher

import (
	"regexp"
	"strings"

	"github.com/Sei-ceramic/excel-merger/internal/model"
)

// 기본 유사도 임계값
const (
	DefaultSheetThreshold  = 0.6
	DefaultColumnThreshold = 0.5
)

var (
	normalizeRe = regexp.MustCompile(`[\s\-_()\[\].]+`)
	wordRe      = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// Similarity 두 식별자 문자열의 유사도 (0.0 ~ 1.0).
// 완전 일치 → 동의어 → 부분 포함 → 시퀀스 유사도 순으로 판정한다.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	na := normalize(a)
	nb := normalize(b)

	// 완전 일치
	if na == nb {
		return 1.0
	}

	// 동의어 사전 검사
	if score := synonymScore(a, b); score > 0 {
		return score
	}

	// 부분 포함 (한쪽이 다른쪽을 포함)
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		la := len([]rune(na))
		lb := len([]rune(nb))
		shorter, longer := la, lb
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return float64(shorter) / float64(longer) * 0.9
	}

	// 시퀀스 유사도 + 공통 단어 비율의 가중 평균
	seq := lcsRatio(na, nb)

	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) > 0 && len(wordsB) > 0 {
		common := 0
		for w := range wordsA {
			if _, ok := wordsB[w]; ok {
				common++
			}
		}
		maxLen := len(wordsA)
		if len(wordsB) > maxLen {
			maxLen = len(wordsB)
		}
		wordSim := float64(common) / float64(maxLen)
		return seq*0.7 + wordSim*0.3
	}

	return seq
}

// MatchSheets 시트명 매칭. 동일한 대상 시트가 여러 기준 시트에 매칭될 수 있다.
func MatchSheets(reference, candidates []string, threshold float64) model.IdentifierMapping {
	matches := make(model.IdentifierMapping)

	for _, ref := range reference {
		best := ""
		bestScore := 0.0
		for _, cand := range candidates {
			score := Similarity(ref, cand)
			if score > bestScore && score >= threshold {
				bestScore = score
				best = cand
			}
		}
		if best != "" {
			matches[ref] = best
		}
	}

	return matches
}

// MatchColumns 열제목 매칭. 이미 소비된 대상 열은 다른 기준 열에 다시 매칭되지 않는다.
func MatchColumns(reference, candidates []string, threshold float64) model.IdentifierMapping {
	matches := make(model.IdentifierMapping)
	used := make(map[string]struct{})

	for _, ref := range reference {
		best := ""
		bestScore := 0.0
		for _, cand := range candidates {
			if _, taken := used[cand]; taken {
				continue
			}
			score := Similarity(ref, cand)
			if score > bestScore && score >= threshold {
				bestScore = score
				best = cand
			}
		}
		if best != "" {
			matches[ref] = best
			used[best] = struct{}{}
		}
	}

	return matches
}

// normalize 소문자 변환 후 공백/하이픈/언더스코어/괄호/마침표 제거
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return normalizeRe.ReplaceAllString(s, "")
}

// synonymScore 동의어 사전 기반 유사도.
// 직접 동의어는 0.95, 같은 동의어 군의 단어를 양쪽 모두 포함하면 0.8.
func synonymScore(a, b string) float64 {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))

	if isDirectSynonym(la, lb) || isDirectSynonym(lb, la) {
		return 0.95
	}

	for key, synonyms := range synonymTable {
		cluster := append([]string{strings.ToLower(key)}, lowerAll(synonyms)...)
		if containsAnyWord(la, cluster) && containsAnyWord(lb, cluster) {
			return 0.8
		}
	}

	return 0
}

func isDirectSynonym(key, other string) bool {
	synonyms, ok := synonymTable[key]
	if !ok {
		return false
	}
	for _, s := range synonyms {
		if strings.ToLower(s) == other {
			return true
		}
	}
	return false
}

func lowerAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToLower(s)
	}
	return out
}

func containsAnyWord(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// lcsRatio 최장 공통 부분 수열 기반 유사도: 2*LCS / (len(a)+len(b))
func lcsRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

// wordSet 원본 문자열(소문자)에서 단어 토큰 집합 추출
func wordSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		out[w] = struct{}{}
	}
	return out
}
