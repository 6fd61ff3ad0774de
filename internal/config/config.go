package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Compat CompatConfig `toml:"compat"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int    `toml:"port" env:"VRCASSETS_PORT"`
	DevMode     bool   `toml:"dev_mode" env:"VRCASSETS_DEV_MODE"`
	FrontendURL string `toml:"frontend_url" env:"VRCASSETS_FRONTEND_URL"` // 开发模式下前端地址
	OpenBrowser bool   `toml:"open_browser" env:"VRCASSETS_OPEN_BROWSER"`
}

// DataConfig 数据配置
//
// 数据库始终是内存库，每次启动按 Seed 重新生成模拟数据。
type DataConfig struct {
	Seed           uint64 `toml:"seed" env:"VRCASSETS_SEED"`
	AssetsPerType  int    `toml:"assets_per_type" env:"VRCASSETS_ASSETS_PER_TYPE"`
	ReferenceFile  string `toml:"reference_file" env:"VRCASSETS_REFERENCE_FILE"` // 为空时使用内置参考数据
	WatchReference bool   `toml:"watch_reference" env:"VRCASSETS_WATCH_REFERENCE"`
}

// CompatConfig 兼容性检查配置
type CompatConfig struct {
	DelayMS int `toml:"delay_ms" env:"VRCASSETS_COMPAT_DELAY_MS"` // 模拟检查耗时，0 表示立即返回
}

// Delay 检查延迟
func (c CompatConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `toml:"level" env:"VRCASSETS_LOG_LEVEL"`
	Development bool   `toml:"development" env:"VRCASSETS_LOG_DEVELOPMENT"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			FrontendURL: "http://localhost:5173",
			OpenBrowser: true,
		},
		Data: DataConfig{
			Seed:          20250101,
			AssetsPerType: 12,
		},
		Compat: CompatConfig{
			DelayMS: 0,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath config.toml 默认位置（可执行文件同目录）
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
//
// 顺序：默认值 -> config.toml -> .env -> 环境变量。path 为空时使用 DefaultPath。
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	if err := applyEnv(config, filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, info, err
	}
	if os.Getenv("VRCASSETS_PORT") != "" {
		info.PortSpecified = true
	}

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// applyEnv 环境变量覆盖（用于本地运行 / E2E）
func applyEnv(config *AppConfig, dotenvPath string) error {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotenvPath, err)
	}
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate 校验配置，汇总所有问题
func (c *AppConfig) Validate() error {
	var errs []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be in 1..65535")
	}
	if c.Data.AssetsPerType < 0 {
		errs = append(errs, "data.assets_per_type must be >= 0")
	}
	if c.Data.WatchReference && strings.TrimSpace(c.Data.ReferenceFile) == "" {
		errs = append(errs, "data.watch_reference requires data.reference_file")
	}
	if c.Compat.DelayMS < 0 {
		errs = append(errs, "compat.delay_ms must be >= 0")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, "log.level must be one of: debug, info, warn, error")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(path string, config *AppConfig) error {
	if path == "" {
		path = DefaultPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
