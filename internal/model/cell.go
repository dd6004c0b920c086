package model

import (
	"strconv"
	"time"
)

// CellKind 셀 값의 종류
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellTime
)

// Cell 단일 셀 값 (empty/text/number/time 중 하나)
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
}

// Grid 2차원 셀 배열 (행 우선)
type Grid [][]Cell

// EmptyCell 빈 셀 생성
func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// TextCell 텍스트 셀 생성
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell 숫자 셀 생성
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// TimeCell 날짜/시간 셀 생성
func TimeCell(t time.Time) Cell {
	return Cell{Kind: CellTime, Time: t}
}

// IsEmpty 빈 셀 여부 (공백만 있는 텍스트도 빈 셀로 취급)
func (c Cell) IsEmpty() bool {
	if c.Kind == CellEmpty {
		return true
	}
	if c.Kind == CellText && trimmedEmpty(c.Text) {
		return true
	}
	return false
}

// String 셀 값의 문자열 표현. 변경 전후 비교와 로그 기록에 사용한다.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellTime:
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

func trimmedEmpty(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
