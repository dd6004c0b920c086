package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sei-ceramic/excel-merger/internal/config"
	"github.com/Sei-ceramic/excel-merger/internal/merger"
	"github.com/Sei-ceramic/excel-merger/internal/reader"
	"github.com/Sei-ceramic/excel-merger/internal/server"
	"github.com/Sei-ceramic/excel-merger/internal/util"
	"github.com/Sei-ceramic/excel-merger/internal/writer"
)

var (
	refPath = flag.String("ref", "", "기준 파일 경로 (지정하면 서버 없이 1회 병합)")
	outPath = flag.String("out", "", "출력 파일 경로 (기본: 설정의 패턴)")
	port    = flag.Int("port", 0, "서버 포트 (config.toml보다 우선)")
	devMode = flag.Bool("dev", false, "개발 모드")
	dataDir = flag.String("dataDir", "", "데이터 디렉터리 (설정 파일보다 우선)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("설정 로드 실패, 기본 설정 사용: %v", err)
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	if *refPath != "" {
		os.Exit(runOnce(cfg))
	}

	runServer(cfg)
}

// runOnce 명령줄 1회 병합. 나머지 인자가 대상 파일이다.
func runOnce(cfg *config.AppConfig) int {
	candidates := flag.Args()
	if len(candidates) == 0 {
		fmt.Fprintln(os.Stderr, "사용법: sheetmerge -ref 기준.xlsx [-out 결과.xlsx] 대상1.xlsx 대상2.csv ...")
		return 2
	}

	output := *outPath
	if output == "" {
		output = util.OutputFileName(cfg.Merge.OutputPattern, time.Now())
	}

	coord := merger.NewCoordinator(
		reader.New(cfg.Merge),
		writer.New(),
		merger.Options{
			SheetThreshold:  cfg.Merge.SheetThreshold,
			ColumnThreshold: cfg.Merge.ColumnThreshold,
		},
	)

	// Ctrl+C → 협조적 취소
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n취소 요청됨...")
		coord.Cancel()
	}()

	var result *merger.Result
	for event := range coord.Merge(merger.MergeRequest{
		ReferencePath:  *refPath,
		CandidatePaths: candidates,
		OutputPath:     output,
	}) {
		if r, ok := event.Data.(*merger.Result); ok {
			result = r
		}
		fmt.Printf("[%3.0f%%] %s\n", event.Fraction*100, event.Message)
	}

	if result == nil {
		fmt.Fprintln(os.Stderr, "병합이 비정상 종료되었습니다")
		return 1
	}

	fmt.Printf("\n결과: %s (변경 %d건)\n", result.Message, result.Log.Len())
	switch result.State {
	case merger.StateCompleted, merger.StateWithWarnings:
		fmt.Printf("저장 위치: %s\n", result.OutputPath)
		return 0
	case merger.StateCancelled:
		return 130
	default:
		return 1
	}
}

// runServer HTTP 서버 모드
func runServer(cfg *config.AppConfig) {
	fmt.Println("==========================================")
	fmt.Println("  Sheetmerge - 엑셀 통합 도구")
	fmt.Println("==========================================")

	if dir, err := config.EnsureDataDir(cfg); err != nil {
		log.Printf("데이터 디렉터리 생성 실패: %v", err)
	} else {
		fmt.Printf("데이터 디렉터리: %s\n", dir)
	}

	srv := server.NewServer(cfg)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		fmt.Printf("서비스 시작, 포트 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("서비스 시작 실패: %v", err)
		}
	}()

	fmt.Printf("접속 주소: http://localhost:%d\n", cfg.Server.Port)

	// 종료 신호 대기
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("\n서비스를 종료합니다")
}
