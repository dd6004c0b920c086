package store

import (
	"fmt"
	"time"

	"github.com/Sei-ceramic/excel-merger/internal/model"
)

// MergeRun 병합 실행 이력 한 건
type MergeRun struct {
	ID             string    `json:"id"`
	ReferenceFile  string    `json:"referenceFile"`
	CandidateCount int       `json:"candidateCount"`
	State          string    `json:"state"`
	Message        string    `json:"message"`
	OutputPath     string    `json:"outputPath"`
	ChangeCount    int       `json:"changeCount"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
}

// SaveRun 실행 이력 저장
func (s *Store) SaveRun(run MergeRun) error {
	_, err := s.db.Exec(`
		INSERT INTO merge_runs
			(id, reference_file, candidate_count, state, message, output_path, change_count, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.ReferenceFile, run.CandidateCount, run.State, run.Message,
		run.OutputPath, run.ChangeCount, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("실행 이력 저장 실패: %w", err)
	}
	return nil
}

// SaveChangeRecords 실행의 변경 기록 일괄 저장
func (s *Store) SaveChangeRecords(runID string, records []model.ChangeRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("트랜잭션 시작 실패: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO change_records
			(run_id, source_file, sheet_name, row_index, column_name, change_kind, original_value, new_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("변경 기록 저장 준비 실패: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(runID, rec.SourceFile, rec.SheetName, rec.RowIndex,
			rec.ColumnName, string(rec.Kind), rec.OriginalValue, rec.NewValue, rec.Timestamp); err != nil {
			return fmt.Errorf("변경 기록 저장 실패: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns 최근 실행 이력 (시작 시각 내림차순)
func (s *Store) ListRuns(limit int) ([]MergeRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, reference_file, candidate_count, state, message, output_path, change_count, started_at, finished_at
		FROM merge_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("실행 이력 조회 실패: %w", err)
	}
	defer rows.Close()

	var runs []MergeRun
	for rows.Next() {
		var run MergeRun
		if err := rows.Scan(&run.ID, &run.ReferenceFile, &run.CandidateCount, &run.State,
			&run.Message, &run.OutputPath, &run.ChangeCount, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("실행 이력 읽기 실패: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListChangeRecords 실행의 변경 기록 조회 (저장 순서)
func (s *Store) ListChangeRecords(runID string) ([]model.ChangeRecord, error) {
	rows, err := s.db.Query(`
		SELECT source_file, sheet_name, row_index, column_name, change_kind, original_value, new_value, created_at
		FROM change_records
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("변경 기록 조회 실패: %w", err)
	}
	defer rows.Close()

	var records []model.ChangeRecord
	for rows.Next() {
		var rec model.ChangeRecord
		var kind string
		if err := rows.Scan(&rec.SourceFile, &rec.SheetName, &rec.RowIndex, &rec.ColumnName,
			&kind, &rec.OriginalValue, &rec.NewValue, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("변경 기록 읽기 실패: %w", err)
		}
		rec.Kind = model.ChangeKind(kind)
		records = append(records, rec)
	}
	return records, rows.Err()
}
