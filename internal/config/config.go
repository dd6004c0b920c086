package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 애플리케이션 설정
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Merge  MergeConfig  `toml:"merge"`
}

// ServerConfig 서버 설정
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 데이터 설정
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// MergeConfig 병합 동작 설정
type MergeConfig struct {
	SheetThreshold   float64  `toml:"sheet_threshold"`
	ColumnThreshold  float64  `toml:"column_threshold"`
	MaxFileSizeMB    int64    `toml:"max_file_size_mb"`
	SupportedFormats []string `toml:"supported_formats"`
	OutputPattern    string   `toml:"output_pattern"`
}

// DefaultConfig 기본 설정
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20483,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Merge: MergeConfig{
			SheetThreshold:   0.6,
			ColumnThreshold:  0.5,
			MaxFileSizeMB:    50,
			SupportedFormats: []string{".xlsx", ".xlsm", ".xls", ".csv"},
			OutputPattern:    "통합_데이터_{timestamp}.xlsx",
		},
	}
}

// GetExeDir 실행 파일이 있는 디렉터리
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig 실행 파일 옆의 config.toml에서 설정 로드.
// 파일이 없으면 기본 설정 파일을 만들어 두고 기본값을 사용한다.
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 최초 실행: 기본값을 저장해 둔다. 쓰기 실패는 무시 (읽기 전용 설치 경로)
			_ = SaveConfig(config)
			applyEnvOverrides(config)
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides 환경 변수 덮어쓰기 (E2E / 로컬 실행용)
func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("SHEETMERGE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("SHEETMERGE_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
}

// SaveConfig 설정을 config.toml에 저장
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 데이터 디렉터리 생성 (실행 파일 옆)
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"uploads", "outputs"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// GetDataPath 데이터 파일 경로
func GetDataPath(config *AppConfig, subdir, filename string) string {
	exeDir, _ := GetExeDir()
	if exeDir == "" {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir, subdir, filename)
}

// MaxFileSizeBytes 파일 크기 상한 (바이트)
func (c MergeConfig) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// IsSupportedFormat 지원 확장자 여부 (소문자 확장자 기준)
func (c MergeConfig) IsSupportedFormat(ext string) bool {
	for _, s := range c.SupportedFormats {
		if s == ext {
			return true
		}
	}
	return false
}
