package model

import "time"

// ChangeKind 변경 유형
type ChangeKind string

const (
	ChangeNumberFormat    ChangeKind = "number_format"
	ChangeDateFormat      ChangeKind = "date_format"
	ChangeTextFormat      ChangeKind = "text_format"
	ChangeRemoveEmptyRows ChangeKind = "remove_empty_rows"
	ChangeSheetMapping    ChangeKind = "sheet_mapping"
	ChangeColumnMapping   ChangeKind = "column_mapping"
)

// ChangeRecord 단일 변경 기록. RowIndex가 -1이면 시트/파일 수준 변경이다.
type ChangeRecord struct {
	SourceFile    string     `json:"sourceFile"`
	SheetName     string     `json:"sheetName"`
	RowIndex      int        `json:"rowIndex"`
	ColumnName    string     `json:"columnName"`
	Kind          ChangeKind `json:"changeKind"`
	OriginalValue string     `json:"originalValue"`
	NewValue      string     `json:"newValue"`
	Timestamp     time.Time  `json:"timestamp"`
}

// ChangeLog 변경 기록 누적 로그. 정규화 호출마다 명시적으로 전달되며
// 추가만 가능하고 기록된 항목은 수정하지 않는다.
type ChangeLog struct {
	records []ChangeRecord
}

// NewChangeLog 빈 로그 생성
func NewChangeLog() *ChangeLog {
	return &ChangeLog{}
}

// Append 변경 기록 추가
func (l *ChangeLog) Append(rec ChangeRecord) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	l.records = append(l.records, rec)
}

// Records 기록 목록 (누적 순서)
func (l *ChangeLog) Records() []ChangeRecord {
	return l.records
}

// Len 기록 수
func (l *ChangeLog) Len() int {
	return len(l.records)
}

// Summary 변경 유형별 개수
func (l *ChangeLog) Summary() map[ChangeKind]int {
	summary := make(map[ChangeKind]int)
	for _, rec := range l.records {
		summary[rec.Kind]++
	}
	return summary
}
