package model

// DataType 열 데이터 타입
type DataType string

const (
	DataNumber DataType = "number"
	DataDate   DataType = "date"
	DataText   DataType = "text"
)

// SheetStructure 시트 구조 분석 결과. 생성 후 수정하지 않는다.
type SheetStructure struct {
	Name        string              `json:"name"`
	HeaderRow   int                 `json:"headerRow"`   // 헤더 행 인덱스 (0부터)
	DataStart   int                 `json:"dataStart"`   // 데이터 시작 행 인덱스
	Columns     []string            `json:"columns"`     // 열 이름 (원본 순서)
	RowCount    int                 `json:"rowCount"`    // 데이터 행 수
	ColumnTypes map[string]DataType `json:"columnTypes"` // 열별 추론 타입
	SampleRows  Grid                `json:"-"`           // 샘플 데이터 (최대 5행)
}

// FileStructure 파일 구조 분석 결과
type FileStructure struct {
	Path        string           `json:"path"`
	DisplayName string           `json:"displayName"`
	Sheets      []*SheetStructure `json:"sheets"`
	Err         string           `json:"error,omitempty"` // 파일 전체를 사용할 수 없을 때만 설정
}

// IdentifierMapping 기준 식별자 -> 대상 식별자 매핑.
// 매칭되지 않은 기준 식별자는 맵에 존재하지 않는다 (오류가 아님).
type IdentifierMapping map[string]string

// Table 시트 단위 테이블 데이터. Sources는 행별 출처 파일명 (원본 행은 빈 문자열).
type Table struct {
	Columns []string
	Rows    []([]Cell)
	Sources []string
}

// NewTable 빈 테이블 생성
func NewTable(columns []string) *Table {
	return &Table{Columns: append([]string{}, columns...)}
}

// AppendRow 행 추가
func (t *Table) AppendRow(row []Cell, source string) {
	t.Rows = append(t.Rows, row)
	t.Sources = append(t.Sources, source)
}

// Len 행 수
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column 열 인덱스 조회 (-1이면 없음)
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// SheetData 출력용 시트 데이터 (비고 열 포함, 열 순서 유지)
type SheetData struct {
	Name    string
	Columns []string
	Rows    []([]Cell)
}
