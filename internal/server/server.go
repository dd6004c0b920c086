package server

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Sei-ceramic/excel-merger/internal/api"
	"github.com/Sei-ceramic/excel-merger/internal/config"
	"github.com/Sei-ceramic/excel-merger/internal/store"
)

// Server HTTP 서버
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
}

// NewServer 서버 생성
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "sheetmerge.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("데이터베이스 초기화 실패: %v", err)
	}

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		api:    api.NewHandler(cfg, sqliteStore),
	}

	s.setupRoutes()

	return s
}

// setupRoutes 라우트 설정
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "sheetmerge",
			"api":     "/api",
		})
	})
}

// Run 서버 시작
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
