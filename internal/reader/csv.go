package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/Sei-ceramic/excel-merger/internal/analyzer"
	"github.com/Sei-ceramic/excel-merger/internal/model"
)

// CSV 파일은 시트가 하나뿐이므로 이 이름을 쓴다
const csvSheetName = "Sheet1"

// readCSVStructure CSV 파일을 단일 시트 파일로 분석한다
func (r *Reader) readCSVStructure(path string) (*model.FileStructure, error) {
	fs := &model.FileStructure{
		Path:        path,
		DisplayName: filepath.Base(path),
	}

	grid, err := r.readCSVGrid(path)
	if err != nil {
		fs.Err = err.Error()
		return fs, nil
	}

	if s := analyzer.Analyze(csvSheetName, grid, len(grid)); s != nil {
		fs.Sheets = append(fs.Sheets, s)
	}
	return fs, nil
}

// readCSVGrid CSV 전체 그리드. 인코딩은 UTF-8 → EUC-KR(CP949) → Latin-1
// 순으로 시도하고 구분자는 첫 행에서 추정한다.
func (r *Reader) readCSVGrid(path string) (model.Grid, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("파일을 읽을 수 없습니다: %w", err)
	}

	text, err := decodeCSV(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV 파싱 실패: %w", err)
	}
	return gridFromStrings(records), nil
}

// decodeCSV 바이트 열을 UTF-8 문자열로 복원
func decodeCSV(raw []byte) (string, error) {
	// UTF-8 BOM 제거
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	if decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), raw); err == nil {
		return string(decoded), nil
	}
	if decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw); err == nil {
		return string(decoded), nil
	}
	return "", fmt.Errorf("지원하지 않는 문자 인코딩입니다")
}

// sniffDelimiter 첫 행에서 가장 많이 등장한 구분자 선택
func sniffDelimiter(text string) rune {
	line := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		line = text[:idx]
	}

	best := ','
	bestCount := strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best = d
			bestCount = n
		}
	}
	return best
}
