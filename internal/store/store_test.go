package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Sei-ceramic/excel-merger/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "merge.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListRuns(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	now := time.Now()

	runs := []MergeRun{
		{ID: "run-1", ReferenceFile: "기준.xlsx", CandidateCount: 2, State: "completed",
			Message: "병합이 완료되었습니다", OutputPath: "결과.xlsx", ChangeCount: 5,
			StartedAt: now.Add(-2 * time.Minute), FinishedAt: now.Add(-1 * time.Minute)},
		{ID: "run-2", ReferenceFile: "기준.xlsx", CandidateCount: 1, State: "failed",
			Message: "기준 파일 분석 실패", StartedAt: now, FinishedAt: now},
	}
	for _, run := range runs {
		if err := s.SaveRun(run); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	got, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("run count = %d, want 2", len(got))
	}
	// 최신 실행이 먼저
	if got[0].ID != "run-2" || got[1].ID != "run-1" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[1].ChangeCount != 5 || got[1].State != "completed" {
		t.Fatalf("run fields lost: %+v", got[1])
	}
}

func TestSaveAndListChangeRecords(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	records := []model.ChangeRecord{
		{SourceFile: "후보.xlsx", SheetName: "직원정보", RowIndex: -1,
			Kind: model.ChangeSheetMapping, OriginalValue: "직원정보", NewValue: "Employees",
			Timestamp: time.Now()},
		{SourceFile: "후보.xlsx", SheetName: "직원정보", RowIndex: 0, ColumnName: "연봉",
			Kind: model.ChangeNumberFormat, OriginalValue: "50,000,000", NewValue: "50000000",
			Timestamp: time.Now()},
	}
	if err := s.SaveChangeRecords("run-1", records); err != nil {
		t.Fatalf("SaveChangeRecords: %v", err)
	}

	got, err := s.ListChangeRecords("run-1")
	if err != nil {
		t.Fatalf("ListChangeRecords: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("record count = %d, want 2", len(got))
	}
	if got[0].Kind != model.ChangeSheetMapping || got[0].RowIndex != -1 {
		t.Fatalf("first record: %+v", got[0])
	}
	if got[1].OriginalValue != "50,000,000" || got[1].ColumnName != "연봉" {
		t.Fatalf("second record: %+v", got[1])
	}

	if empty, err := s.ListChangeRecords("없는실행"); err != nil || len(empty) != 0 {
		t.Fatalf("unknown run must be empty: %v, %v", empty, err)
	}
}

func TestSaveChangeRecords_Empty(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.SaveChangeRecords("run-1", nil); err != nil {
		t.Fatalf("empty batch must be a no-op: %v", err)
	}
}
