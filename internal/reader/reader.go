package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Sei-ceramic/excel-merger/internal/config"
	"github.com/Sei-ceramic/excel-merger/internal/model"
	"github.com/Sei-ceramic/excel-merger/internal/util"
)

// Reader 입력 파일 어댑터. 확장자로 형식을 판별해 구조 분석 결과와
// 원본 그리드를 제공한다.
type Reader struct {
	cfg config.MergeConfig
}

// New 리더 생성
func New(cfg config.MergeConfig) *Reader {
	return &Reader{cfg: cfg}
}

// Validate 파일 존재/크기/확장자 검증
func (r *Reader) Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("파일이 존재하지 않습니다: %s", path)
		}
		return fmt.Errorf("파일 정보를 읽을 수 없습니다: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("디렉터리는 처리할 수 없습니다: %s", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("빈 파일입니다: %s", path)
	}
	if max := r.cfg.MaxFileSizeBytes(); max > 0 && info.Size() > max {
		return fmt.Errorf("파일이 너무 큽니다 (%s, 최대 %s): %s",
			util.FormatFileSize(info.Size()), util.FormatFileSize(max), path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !r.cfg.IsSupportedFormat(ext) {
		return fmt.Errorf("지원하지 않는 형식입니다: %s", ext)
	}
	return nil
}

// ReadStructure 파일 전체의 구조 분석 결과.
// 열 수 없는 파일은 Err 필드가 설정된 FileStructure를 반환한다.
func (r *Reader) ReadStructure(path string) (*model.FileStructure, error) {
	if err := r.Validate(path); err != nil {
		return nil, err
	}

	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return r.readCSVStructure(path)
	}
	return r.readExcelStructure(path)
}

// ReadGrid 시트의 전체 그리드 (헤더 행 포함)
func (r *Reader) ReadGrid(path, sheet string) (model.Grid, error) {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return r.readCSVGrid(path)
	}
	return r.readExcelGrid(path, sheet)
}

// cellFromString 문자열 셀 값을 타입이 있는 셀로 변환.
// 공백뿐인 값은 빈 셀, 구분자 없는 순수 숫자는 숫자 셀, 나머지는 원본 그대로
// 텍스트 셀이 된다. 쉼표가 섞인 숫자 표기는 정규화 단계에서 기록과 함께 바뀌도록
// 텍스트로 남긴다.
func cellFromString(s string) model.Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return model.EmptyCell()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return model.NumberCell(f)
	}
	return model.TextCell(s)
}

// gridFromStrings 문자열 행렬을 셀 그리드로 변환
func gridFromStrings(rows [][]string) model.Grid {
	grid := make(model.Grid, len(rows))
	for i, row := range rows {
		cells := make([]model.Cell, len(row))
		for j, v := range row {
			cells[j] = cellFromString(v)
		}
		grid[i] = cells
	}
	return grid
}
