package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListRuns 최근 병합 실행 이력 조회
// GET /api/runs?limit=50
func (h *Handler) ListRuns(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.store.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "이력 조회 실패"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(runs),
		"runs":  runs,
	})
}

// ListRunChanges 실행 한 건의 변경 기록 조회 (저장 순서)
// GET /api/runs/:id/changes
func (h *Handler) ListRunChanges(c *gin.Context) {
	runID := c.Param("id")

	records, err := h.store.ListChangeRecords(runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "변경 기록 조회 실패"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runId":   runID,
		"total":   len(records),
		"changes": records,
	})
}
