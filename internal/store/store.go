package store

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store SQLite 저장소. 실행 이력과 변경 기록을 보관한다.
type Store struct {
	db *sql.DB
}

// New Store 생성. 경로의 디렉터리를 만들고 스키마를 초기화한다.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("데이터 디렉터리 생성 실패: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("데이터베이스 열기 실패: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("데이터베이스 연결 실패: %w", err)
	}

	// SQLite는 단일 연결 권장
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("스키마 초기화 실패: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("schema.sql 읽기 실패: %w", err)
	}

	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("스키마 실행 실패: %w", err)
	}
	return nil
}

// Close 데이터베이스 연결 종료
func (s *Store) Close() error {
	return s.db.Close()
}
