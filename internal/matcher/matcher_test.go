package matcher

import "testing"

func TestSimilarity_Identity(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"이름", "Employee Info", "급여 (원)", "a"} {
		if got := Similarity(s, s); got != 1.0 {
			t.Fatalf("similarity(%q, %q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestSimilarity_Empty(t *testing.T) {
	t.Parallel()

	if got := Similarity("", "이름"); got != 0 {
		t.Fatalf("similarity(\"\", 이름) = %v, want 0", got)
	}
	if got := Similarity("이름", ""); got != 0 {
		t.Fatalf("similarity(이름, \"\") = %v, want 0", got)
	}
}

func TestSimilarity_NormalizedExactMatch(t *testing.T) {
	t.Parallel()

	// 공백/언더스코어/괄호 차이는 정규화로 흡수
	if got := Similarity("hire_date", "Hire Date"); got != 1.0 {
		t.Fatalf("normalized match = %v, want 1.0", got)
	}
	if got := Similarity("부서 (명)", "부서명"); got != 1.0 {
		t.Fatalf("normalized match = %v, want 1.0", got)
	}
}

func TestSimilarity_DirectSynonym(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"이름", "성명"},
		{"연봉", "급여"},
		{"직원정보", "사원정보"},
		{"name", "성함"},
	}
	for _, p := range pairs {
		if got := Similarity(p[0], p[1]); got != 0.95 {
			t.Fatalf("synonym %q/%q = %v, want 0.95", p[0], p[1], got)
		}
	}
}

func TestSimilarity_ClusterContainment(t *testing.T) {
	t.Parallel()

	// 양쪽 모두 같은 동의어 군의 단어를 포함하는 경우
	if got := Similarity("소속부서", "급여부서코드"); got != 0.8 {
		t.Fatalf("cluster containment = %v, want 0.8", got)
	}
}

func TestSimilarity_Containment(t *testing.T) {
	t.Parallel()

	// "총매출"/"매출": 포함 관계, 2/3 * 0.9
	got := Similarity("총매출", "매출")
	want := 2.0 / 3.0 * 0.9
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("containment = %v, want %v", got, want)
	}
}

func TestMatchColumns_NoDuplicateConsumption(t *testing.T) {
	t.Parallel()

	ref := []string{"이름", "성명"}
	cand := []string{"성명"}

	matches := MatchColumns(ref, cand, DefaultColumnThreshold)

	if len(matches) != 1 {
		t.Fatalf("expected single match, got %v", matches)
	}
	if matches["이름"] != "성명" {
		t.Fatalf("first reference should consume the candidate: %v", matches)
	}
	if _, ok := matches["성명"]; ok {
		t.Fatalf("candidate consumed twice: %v", matches)
	}
}

func TestMatchSheets_AllowsReuse(t *testing.T) {
	t.Parallel()

	// 두 기준 시트가 같은 대상 시트에 매칭되는 것은 허용된다
	ref := []string{"직원정보", "직원 정보"}
	cand := []string{"사원정보"}

	matches := MatchSheets(ref, cand, DefaultSheetThreshold)

	if len(matches) != 2 {
		t.Fatalf("expected both sheets matched, got %v", matches)
	}
	if matches["직원정보"] != "사원정보" || matches["직원 정보"] != "사원정보" {
		t.Fatalf("unexpected mapping: %v", matches)
	}
}

func TestMatchColumns_BelowThresholdOmitted(t *testing.T) {
	t.Parallel()

	matches := MatchColumns([]string{"연봉"}, []string{"주소"}, DefaultColumnThreshold)
	if len(matches) != 0 {
		t.Fatalf("expected no match, got %v", matches)
	}
}

func TestMatchColumns_SynonymScenario(t *testing.T) {
	t.Parallel()

	ref := []string{"이름", "부서", "연봉"}
	cand := []string{"성명", "소속부서", "급여"}

	matches := MatchColumns(ref, cand, DefaultColumnThreshold)

	want := map[string]string{"이름": "성명", "부서": "소속부서", "연봉": "급여"}
	for r, c := range want {
		if matches[r] != c {
			t.Fatalf("match[%q] = %q, want %q (all: %v)", r, matches[r], c, matches)
		}
	}
}
