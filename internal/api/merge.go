package api

import (
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sei-ceramic/excel-merger/internal/config"
	"github.com/Sei-ceramic/excel-merger/internal/merger"
	"github.com/Sei-ceramic/excel-merger/internal/reader"
	"github.com/Sei-ceramic/excel-merger/internal/store"
	"github.com/Sei-ceramic/excel-merger/internal/util"
	"github.com/Sei-ceramic/excel-merger/internal/writer"
)

// Merge 병합 실행 (SSE 스트리밍 응답)
// POST /api/merge (multipart: reference 1개 + files N개)
func (h *Handler) Merge(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 폼 데이터입니다"})
		return
	}

	refFiles := form.File["reference"]
	if len(refFiles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "기준 파일이 없습니다"})
		return
	}
	candFiles := form.File["files"]

	refPath, cleanupRef, err := h.saveUpload(c, refFiles[0])
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "파일 저장 실패"})
		return
	}
	defer cleanupRef()

	candPaths := make([]string, 0, len(candFiles))
	for _, fh := range candFiles {
		path, cleanup, err := h.saveUpload(c, fh)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "파일 저장 실패"})
			return
		}
		defer cleanup()
		candPaths = append(candPaths, path)
	}

	coord := merger.NewCoordinator(
		reader.New(h.cfg.Merge),
		writer.New(),
		merger.Options{
			SheetThreshold:  h.cfg.Merge.SheetThreshold,
			ColumnThreshold: h.cfg.Merge.ColumnThreshold,
		},
	)
	if !h.setActive(coord) {
		c.JSON(http.StatusConflict, gin.H{"error": "이미 실행 중인 병합이 있습니다"})
		return
	}
	defer h.clearActive()

	outputName := util.OutputFileName(h.cfg.Merge.OutputPattern, time.Now())
	outputPath := config.GetDataPath(h.cfg, "outputs", outputName)

	// SSE 응답 헤더
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "스트리밍 응답을 지원하지 않습니다"})
		return
	}

	startedAt := time.Now()
	progressChan := coord.Merge(merger.MergeRequest{
		ReferencePath:  refPath,
		CandidatePaths: candPaths,
		OutputPath:     outputPath,
	})

	var result *merger.Result
	for event := range progressChan {
		if r, ok := event.Data.(*merger.Result); ok {
			result = r
		}

		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}

	if result != nil {
		h.persistRun(result, refFiles[0].Filename, len(candPaths), startedAt)
	}
}

// saveUpload 업로드 파일을 uploads 디렉터리에 저장
func (h *Handler) saveUpload(c *gin.Context, fh *multipart.FileHeader) (string, func(), error) {
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), util.SafeFileName(fh.Filename))
	path := config.GetDataPath(h.cfg, "uploads", name)

	if err := c.SaveUploadedFile(fh, path); err != nil {
		return "", nil, err
	}
	return path, func() { os.Remove(path) }, nil
}

// persistRun 실행 이력과 변경 기록 저장. 저장 실패는 실행 결과에 영향을 주지 않는다.
func (h *Handler) persistRun(result *merger.Result, referenceName string, candidateCount int, startedAt time.Time) {
	if h.store == nil {
		return
	}

	run := store.MergeRun{
		ID:             result.RunID,
		ReferenceFile:  referenceName,
		CandidateCount: candidateCount,
		State:          string(result.State),
		Message:        result.Message,
		OutputPath:     result.OutputPath,
		ChangeCount:    result.Log.Len(),
		StartedAt:      startedAt,
		FinishedAt:     startedAt.Add(result.Duration),
	}
	if err := h.store.SaveRun(run); err != nil {
		log.Printf("실행 이력 저장 실패: %v", err)
		return
	}
	if err := h.store.SaveChangeRecords(result.RunID, result.Log.Records()); err != nil {
		log.Printf("변경 기록 저장 실패: %v", err)
	}
}
