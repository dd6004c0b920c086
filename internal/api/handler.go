package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Sei-ceramic/excel-merger/internal/config"
	"github.com/Sei-ceramic/excel-merger/internal/merger"
	"github.com/Sei-ceramic/excel-merger/internal/store"
)

// Handler API 처리기. 병합은 한 번에 하나만 실행한다.
type Handler struct {
	cfg   *config.AppConfig
	store *store.Store

	mu     sync.Mutex
	active *merger.Coordinator
}

// NewHandler 처리기 생성
func NewHandler(cfg *config.AppConfig, st *store.Store) *Handler {
	return &Handler{cfg: cfg, store: st}
}

// RegisterRoutes 라우트 등록
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.POST("/merge", h.Merge)
	rg.POST("/merge/cancel", h.CancelMerge)
	rg.GET("/runs", h.ListRuns)
	rg.GET("/runs/:id/changes", h.ListRunChanges)
}

// Health 상태 확인
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "sheetmerge",
	})
}

// setActive 실행 중인 병합 등록. 이미 있으면 false.
func (h *Handler) setActive(coord *merger.Coordinator) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active != nil {
		return false
	}
	h.active = coord
	return true
}

func (h *Handler) clearActive() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = nil
}

// CancelMerge 실행 중인 병합 취소 요청
// POST /api/merge/cancel
func (h *Handler) CancelMerge(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "실행 중인 병합이 없습니다"})
		return
	}
	h.active.Cancel()
	c.JSON(http.StatusOK, gin.H{"status": "cancelling"})
}
