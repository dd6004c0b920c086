package util

import (
	"testing"
	"time"
)

func TestSafeFileName(t *testing.T) {
	t.Parallel()

	if got := SafeFileName("통합/데이터:2023?.xlsx"); got != "통합_데이터_2023_.xlsx" {
		t.Fatalf("got %q", got)
	}
}

func TestOutputFileName(t *testing.T) {
	t.Parallel()

	now := time.Date(2023, 3, 15, 9, 30, 0, 0, time.UTC)
	got := OutputFileName("통합_데이터_{timestamp}.xlsx", now)
	if got != "통합_데이터_20230315_093000.xlsx" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{
		512:              "512 B",
		2048:             "2.0 KB",
		52428800:         "50.0 MB",
		3 * 1024 * 1024 * 1024: "3.0 GB",
	}
	for in, want := range cases {
		if got := FormatFileSize(in); got != want {
			t.Fatalf("FormatFileSize(%d) = %q, want %q", in, got, want)
		}
	}
}
