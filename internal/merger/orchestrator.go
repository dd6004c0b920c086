package merger

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Sei-ceramic/excel-merger/internal/matcher"
	"github.com/Sei-ceramic/excel-merger/internal/model"
	"github.com/Sei-ceramic/excel-merger/internal/normalizer"
)

// FileReader 입력 파일 어댑터. 경로로부터 구조 분석 결과와 원본 그리드를 제공한다.
type FileReader interface {
	ReadStructure(path string) (*model.FileStructure, error)
	ReadGrid(path, sheet string) (model.Grid, error)
}

// OutputWriter 출력 파일 어댑터. 열 순서와 비고 열을 그대로 기록해야 한다.
type OutputWriter interface {
	Write(path string, sheets []model.SheetData) error
}

// Options 병합 동작 설정
type Options struct {
	SheetThreshold  float64 // 시트명 매칭 임계값
	ColumnThreshold float64 // 열제목 매칭 임계값
}

// DefaultOptions 기본 임계값
func DefaultOptions() Options {
	return Options{
		SheetThreshold:  matcher.DefaultSheetThreshold,
		ColumnThreshold: matcher.DefaultColumnThreshold,
	}
}

// MergeRequest 병합 요청
type MergeRequest struct {
	ReferencePath  string
	CandidatePaths []string
	OutputPath     string
}

// RunState 실행 종료 상태
type RunState string

const (
	StateCompleted    RunState = "completed"
	StateWithWarnings RunState = "completed_with_warnings"
	StateCancelled    RunState = "cancelled"
	StateFailed       RunState = "failed"
)

// ProgressEvent 진행 이벤트
type ProgressEvent struct {
	Type      string      `json:"type"`     // start/stage/warning/done/error/cancelled
	Message   string      `json:"message"`  // 이벤트 메시지
	Fraction  float64     `json:"fraction"` // 전체 진행률 (0.0 ~ 1.0)
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// SheetSummary 결과 시트 요약
type SheetSummary struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// Report 실행 보고서. 파일 단위 오류와 품질 문제를 누적하며
// 종료 시 변경 유형별 개수가 채워진다.
type Report struct {
	TotalFiles     int                      `json:"totalFiles"`
	ProcessedFiles int                      `json:"processedFiles"`
	SkippedFiles   int                      `json:"skippedFiles"`
	Issues         []string                 `json:"issues,omitempty"`
	Sheets         []SheetSummary           `json:"sheets,omitempty"`
	Summary        map[model.ChangeKind]int `json:"changeSummary,omitempty"`
}

// Result 실행 결과. 종료 이벤트의 Data로 전달된다.
type Result struct {
	RunID      string           `json:"runId"`
	State      RunState         `json:"state"`
	Message    string           `json:"message"`
	OutputPath string           `json:"outputPath,omitempty"`
	Report     *Report          `json:"report"`
	Log        *model.ChangeLog `json:"-"`
	Duration   time.Duration    `json:"duration"`
}

// Coordinator 병합 파이프라인 조정자.
// 한 번에 하나의 실행만 담당하며 실행 전체는 단일 고루틴에서 순차 처리된다.
type Coordinator struct {
	reader    FileReader
	writer    OutputWriter
	opts      Options
	cancelled atomic.Bool
}

// NewCoordinator 조정자 생성
func NewCoordinator(reader FileReader, writer OutputWriter, opts Options) *Coordinator {
	return &Coordinator{
		reader: reader,
		writer: writer,
		opts:   opts,
	}
}

// Cancel 협조적 취소 요청. 단계 경계와 파일 경계에서만 반영된다.
func (c *Coordinator) Cancel() {
	c.cancelled.Store(true)
}

// Merge 병합 실행. 진행 이벤트 통로를 반환하며 완료 시 닫힌다.
// 마지막 이벤트(done/error/cancelled)의 Data에 *Result가 담긴다.
func (c *Coordinator) Merge(req MergeRequest) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)
	c.cancelled.Store(false)

	go func() {
		defer close(progressChan)
		c.doMerge(req, progressChan)
	}()

	return progressChan
}

// runContext 실행 중 상태
type runContext struct {
	req          MergeRequest
	progressChan chan ProgressEvent
	startTime    time.Time

	totalSteps int
	step       int

	log    *model.ChangeLog
	report *Report

	reference  *model.FileStructure
	refTables  map[string]*refSheet // 기준 시트명 → 기준 데이터와 서식
	candidates []*candidateFile
	merged     []*mergedSheet
}

// refSheet 기준 시트의 데이터와 열별 서식 기준
type refSheet struct {
	structure *model.SheetStructure
	rows      model.Grid
	profiles  map[string]model.FormatProfile
}

// candidateFile 후보 파일의 구조와 시트 매칭 결과
type candidateFile struct {
	path      string
	structure *model.FileStructure
	sheetMap  model.IdentifierMapping // 기준 시트명 → 후보 시트명
	skipped   bool
}

func (c *Coordinator) doMerge(req MergeRequest, progressChan chan ProgressEvent) {
	ctx := &runContext{
		req:          req,
		progressChan: progressChan,
		startTime:    time.Now(),
		totalSteps:   6 + len(req.CandidatePaths),
		log:          model.NewChangeLog(),
		report:       &Report{TotalFiles: len(req.CandidatePaths)},
		refTables:    make(map[string]*refSheet),
	}

	c.send(ctx, ProgressEvent{
		Type:    "start",
		Message: fmt.Sprintf("병합 시작: 기준 파일 + 대상 %d개", len(req.CandidatePaths)),
	})

	stages := []struct {
		label string
		run   func(*runContext) error
	}{
		{"기준 파일 분석", c.analyzeReference},
		{"호환성 검증", c.validateCompatibility},
		{"서식 기준 추출", c.extractStandards},
		{"대상 파일 처리", c.processCandidates},
		{"데이터 통합", c.combine},
		{"품질 검증", c.validateQuality},
	}

	for _, stage := range stages {
		if c.cancelled.Load() {
			c.finish(ctx, StateCancelled, "사용자 요청으로 취소되었습니다")
			return
		}
		if err := stage.run(ctx); err != nil {
			c.finish(ctx, StateFailed, err.Error())
			return
		}
	}

	if c.cancelled.Load() {
		c.finish(ctx, StateCancelled, "사용자 요청으로 취소되었습니다")
		return
	}

	// 저장
	sheets := make([]model.SheetData, 0, len(ctx.merged))
	for _, m := range ctx.merged {
		sheets = append(sheets, m.data)
	}
	if err := c.writer.Write(req.OutputPath, sheets); err != nil {
		c.finish(ctx, StateFailed, fmt.Sprintf("저장 실패: %v", err))
		return
	}
	c.advance(ctx, "저장 완료")

	if len(ctx.report.Issues) > 0 {
		c.finish(ctx, StateWithWarnings,
			fmt.Sprintf("병합 완료 (경고 %d건)", len(ctx.report.Issues)))
		return
	}
	c.finish(ctx, StateCompleted, "병합이 완료되었습니다")
}

// analyzeReference 기준 파일 구조 분석. 실패하면 실행 전체가 실패한다.
func (c *Coordinator) analyzeReference(ctx *runContext) error {
	ref, err := c.reader.ReadStructure(ctx.req.ReferencePath)
	if err != nil {
		return fmt.Errorf("기준 파일 분석 실패: %w", err)
	}
	if ref.Err != "" {
		return fmt.Errorf("기준 파일 분석 실패: %s", ref.Err)
	}
	if len(ref.Sheets) == 0 {
		return fmt.Errorf("기준 파일에 사용할 수 있는 시트가 없습니다: %s", ref.DisplayName)
	}

	ctx.reference = ref
	for _, sheet := range ref.Sheets {
		grid, err := c.reader.ReadGrid(ctx.req.ReferencePath, sheet.Name)
		if err != nil {
			return fmt.Errorf("기준 시트 읽기 실패 (%s): %w", sheet.Name, err)
		}
		ctx.refTables[sheet.Name] = &refSheet{
			structure: sheet,
			rows:      dataRows(grid, sheet.DataStart),
		}
	}

	c.advance(ctx, fmt.Sprintf("기준 파일 분석 완료: 시트 %d개", len(ref.Sheets)))
	return nil
}

// validateCompatibility 후보 파일별 구조 분석과 시트 매칭.
// 매칭되는 시트가 없는 파일은 문제로 기록하되 실행은 계속한다.
func (c *Coordinator) validateCompatibility(ctx *runContext) error {
	refNames := sheetNames(ctx.reference.Sheets)

	for _, path := range ctx.req.CandidatePaths {
		cand := &candidateFile{path: path}
		ctx.candidates = append(ctx.candidates, cand)

		fs, err := c.reader.ReadStructure(path)
		if err != nil {
			cand.skipped = true
			c.issue(ctx, fmt.Sprintf("파일을 읽을 수 없습니다 (%s): %v", path, err))
			continue
		}
		cand.structure = fs
		if fs.Err != "" {
			cand.skipped = true
			c.issue(ctx, fmt.Sprintf("파일을 사용할 수 없습니다 (%s): %s", fs.DisplayName, fs.Err))
			continue
		}

		cand.sheetMap = matcher.MatchSheets(refNames, sheetNames(fs.Sheets), c.opts.SheetThreshold)
		if len(cand.sheetMap) == 0 {
			cand.skipped = true
			c.issue(ctx, fmt.Sprintf("매칭되는 시트가 없습니다: %s", fs.DisplayName))
		}
	}

	c.advance(ctx, "호환성 검증 완료")
	return nil
}

// extractStandards 기준 시트별 열 서식 기준 추출
func (c *Coordinator) extractStandards(ctx *runContext) error {
	for _, ref := range ctx.refTables {
		s := ref.structure
		ref.profiles = normalizer.ExtractProfiles(s.Columns, s.ColumnTypes, ref.rows)
	}
	c.advance(ctx, "서식 기준 추출 완료")
	return nil
}

// processCandidates 후보 파일을 입력 순서대로 하나씩 처리한다.
// 파일 단위 오류는 기록하고 건너뛰며, 파일 경계마다 취소를 확인한다.
func (c *Coordinator) processCandidates(ctx *runContext) error {
	ctx.merged = make([]*mergedSheet, 0, len(ctx.reference.Sheets))
	for _, sheet := range ctx.reference.Sheets {
		ctx.merged = append(ctx.merged, &mergedSheet{ref: ctx.refTables[sheet.Name]})
	}

	for _, cand := range ctx.candidates {
		if c.cancelled.Load() {
			return nil // 취소는 단계 루프에서 상태로 전환
		}
		if cand.skipped {
			ctx.report.SkippedFiles++
			c.advance(ctx, fmt.Sprintf("건너뜀: %s", cand.path))
			continue
		}

		if err := c.processCandidate(ctx, cand); err != nil {
			ctx.report.SkippedFiles++
			c.issue(ctx, fmt.Sprintf("파일 처리 실패 (%s): %v", cand.structure.DisplayName, err))
		} else {
			ctx.report.ProcessedFiles++
		}
		c.advance(ctx, fmt.Sprintf("파일 처리 완료: %s", cand.structure.DisplayName))
	}
	return nil
}

// processCandidate 한 후보 파일의 매칭된 시트들을 기준 구조에 맞춰 정렬/정규화한다
func (c *Coordinator) processCandidate(ctx *runContext, cand *candidateFile) error {
	display := cand.structure.DisplayName

	for _, m := range ctx.merged {
		refStruct := m.ref.structure
		candName, ok := cand.sheetMap[refStruct.Name]
		if !ok {
			continue
		}
		candStruct := findSheet(cand.structure, candName)
		if candStruct == nil {
			continue
		}

		grid, err := c.reader.ReadGrid(cand.path, candName)
		if err != nil {
			return fmt.Errorf("시트 읽기 실패 (%s): %w", candName, err)
		}

		seg := buildSegment(segmentInput{
			source:     display,
			refStruct:  refStruct,
			candStruct: candStruct,
			rows:       dataRows(grid, candStruct.DataStart),
			profiles:   m.ref.profiles,
			threshold:  c.opts.ColumnThreshold,
			log:        ctx.log,
		})
		m.segments = append(m.segments, seg)
	}
	return nil
}

// combine 기준 데이터와 후보 조각들을 기준 시트 순서대로 통합하고 비고 열을 만든다
func (c *Coordinator) combine(ctx *runContext) error {
	for _, m := range ctx.merged {
		m.data = combineSheet(m)
		ctx.report.Sheets = append(ctx.report.Sheets, SheetSummary{
			Name:    m.data.Name,
			Rows:    len(m.data.Rows),
			Columns: len(m.data.Columns),
		})
	}
	c.advance(ctx, "데이터 통합 완료")
	return nil
}

// validateQuality 결과 품질 검증. 문제는 경고로만 남기고 저장은 계속한다.
func (c *Coordinator) validateQuality(ctx *runContext) error {
	for _, issue := range checkQuality(ctx.reference, ctx.merged) {
		c.issue(ctx, issue)
	}
	c.advance(ctx, "품질 검증 완료")
	return nil
}

// finish 종료 이벤트 전송
func (c *Coordinator) finish(ctx *runContext, state RunState, message string) {
	ctx.report.Summary = ctx.log.Summary()
	result := &Result{
		RunID:    uuid.NewString(),
		State:    state,
		Message:  message,
		Report:   ctx.report,
		Log:      ctx.log,
		Duration: time.Since(ctx.startTime),
	}
	if state == StateCompleted || state == StateWithWarnings {
		result.OutputPath = ctx.req.OutputPath
	}

	eventType := "done"
	switch state {
	case StateFailed:
		eventType = "error"
	case StateCancelled:
		eventType = "cancelled"
	}

	c.send(ctx, ProgressEvent{
		Type:     eventType,
		Message:  message,
		Fraction: float64(ctx.step) / float64(ctx.totalSteps),
		Data:     result,
	})
}

// advance 단계 완료 처리와 진행 이벤트 전송
func (c *Coordinator) advance(ctx *runContext, message string) {
	ctx.step++
	c.send(ctx, ProgressEvent{
		Type:     "stage",
		Message:  message,
		Fraction: float64(ctx.step) / float64(ctx.totalSteps),
	})
}

// issue 보고서에 문제를 기록하고 경고 이벤트 전송
func (c *Coordinator) issue(ctx *runContext, message string) {
	ctx.report.Issues = append(ctx.report.Issues, message)
	c.send(ctx, ProgressEvent{
		Type:     "warning",
		Message:  message,
		Fraction: float64(ctx.step) / float64(ctx.totalSteps),
	})
}

// send 진행 이벤트 전송. 통로가 가득 차면 이벤트를 버린다.
func (c *Coordinator) send(ctx *runContext, event ProgressEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case ctx.progressChan <- event:
	default:
	}
}

func sheetNames(sheets []*model.SheetStructure) []string {
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	return names
}

func findSheet(fs *model.FileStructure, name string) *model.SheetStructure {
	for _, s := range fs.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func dataRows(grid model.Grid, dataStart int) model.Grid {
	if dataStart >= len(grid) {
		return nil
	}
	return grid[dataStart:]
}
