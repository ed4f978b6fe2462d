package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Report    ReportConfig    `mapstructure:"report"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Feature   FeatureConfig   `mapstructure:"feature"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// StorageConfig 数据存储配置
type StorageConfig struct {
	Driver        string `mapstructure:"driver"`         // json | xlsx
	DataDir       string `mapstructure:"data_dir"`       // JSON 集合所在目录
	Workbook      string `mapstructure:"workbook"`       // xlsx 驱动的工作簿文件名（位于 data_dir 下）
	CascadePolicy string `mapstructure:"cascade_policy"` // delete_empty | keep_empty
}

// ReportConfig 报表配置
type ReportConfig struct {
	Dir      string `mapstructure:"dir"`      // PDF 落盘目录
	Timezone string `mapstructure:"timezone"` // "今天" 的时区
	Layout   string `mapstructure:"layout"`   // table | daily
}

// ArchiveConfig 报表归档（S3 兼容对象存储）配置
type ArchiveConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"` // 可选，MinIO 等
	PathStyle       bool   `mapstructure:"path_style"`
	Prefix          string `mapstructure:"prefix"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// RedisConfig Redis 配置（仅用于限流，可选）
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig 写接口限流配置
type RateLimitConfig struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FeatureConfig 功能开关配置
type FeatureConfig struct {
	MetricsEnabled bool `mapstructure:"metrics_enabled"` // 关闭即禁用遥测（/metrics）
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("storage.driver", "json")
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.workbook", "limpieza.xlsx")
	v.SetDefault("storage.cascade_policy", "delete_empty")

	v.SetDefault("report.dir", "reportes")
	v.SetDefault("report.timezone", "America/Guayaquil")
	v.SetDefault("report.layout", "table")

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.prefix", "reportes/")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.limit", 60)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("feature.metrics_enabled", true)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("LIMPIEZA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Storage.Driver {
	case "json", "xlsx":
	default:
		return fmt.Errorf("配置校验失败: storage.driver 只能是 json 或 xlsx，实际 %q", c.Storage.Driver)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("配置校验失败: storage.data_dir 不能为空")
	}
	switch c.Storage.CascadePolicy {
	case "delete_empty", "keep_empty":
	default:
		return fmt.Errorf("配置校验失败: storage.cascade_policy 只能是 delete_empty 或 keep_empty")
	}
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("配置校验失败: report.timezone 无效: %w", err)
	}
	switch c.Report.Layout {
	case "table", "daily":
	default:
		return fmt.Errorf("配置校验失败: report.layout 只能是 table 或 daily")
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return fmt.Errorf("配置校验失败: 启用归档时 archive.bucket 不能为空")
	}
	if c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("配置校验失败: rate_limit.limit 与 rate_limit.window 必须为正数")
	}
	return nil
}
