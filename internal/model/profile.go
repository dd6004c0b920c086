package model

// CaseRule 텍스트 대소문자 규칙
type CaseRule string

const (
	CaseNone  CaseRule = ""
	CaseUpper CaseRule = "upper"
	CaseLower CaseRule = "lower"
	CaseTitle CaseRule = "title"
)

// FormatProfile 기준 파일에서 추출한 열 서식 기준.
// NumberProfile / DateProfile / TextProfile 중 하나이며, 추출 후 읽기 전용이다.
type FormatProfile interface {
	DataType() DataType
}

// NumberProfile 숫자 서식 기준
type NumberProfile struct {
	DecimalPlaces      int  `json:"decimalPlaces"`
	ThousandsSeparator bool `json:"thousandsSeparator"`
}

// DataType FormatProfile 구현
func (NumberProfile) DataType() DataType { return DataNumber }

// DateProfile 날짜 서식 기준. Layout은 Go 참조 레이아웃 형식이다.
type DateProfile struct {
	Layout string `json:"layout"`
}

// DataType FormatProfile 구현
func (DateProfile) DataType() DataType { return DataDate }

// TextProfile 텍스트 서식 기준
type TextProfile struct {
	TrimSpace      bool     `json:"trimSpace"`
	CollapseSpaces bool     `json:"collapseSpaces"`
	CaseRule       CaseRule `json:"caseRule"`
}

// DataType FormatProfile 구현
func (TextProfile) DataType() DataType { return DataText }
