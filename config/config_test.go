package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFromYAML(t, "")
	if err != nil {
		t.Fatalf("默认配置应通过校验: %v", err)
	}
	if cfg.Storage.Driver != "json" || cfg.Storage.DataDir != "data" {
		t.Errorf("存储默认值错误: %+v", cfg.Storage)
	}
	if cfg.Storage.CascadePolicy != "delete_empty" {
		t.Errorf("级联策略默认应为 delete_empty，实际 %q", cfg.Storage.CascadePolicy)
	}
	if cfg.Report.Timezone != "America/Guayaquil" {
		t.Errorf("时区默认值错误: %q", cfg.Report.Timezone)
	}
	if cfg.RateLimit.Window != time.Minute {
		t.Errorf("限流窗口默认应为 1m，实际 %v", cfg.RateLimit.Window)
	}
	if !cfg.Feature.MetricsEnabled {
		t.Error("指标默认应开启")
	}
}

func TestLoad_FileOverridesAndEnv(t *testing.T) {
	t.Setenv("LIMPIEZA_FEATURE_METRICS_ENABLED", "false")

	cfg, err := loadFromYAML(t, "storage:\n  driver: xlsx\n  cascade_policy: keep_empty\nserver:\n  port: 9000\n")
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Storage.Driver != "xlsx" || cfg.Storage.CascadePolicy != "keep_empty" || cfg.Server.Port != 9000 {
		t.Errorf("配置文件未生效: %+v", cfg)
	}
	if cfg.Feature.MetricsEnabled {
		t.Error("环境变量应能关闭遥测")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := loadFromYAML(t, "")
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }},
		{"未知存储驱动", func(c *Config) { c.Storage.Driver = "sqlite" }},
		{"未知级联策略", func(c *Config) { c.Storage.CascadePolicy = "purge" }},
		{"无效时区", func(c *Config) { c.Report.Timezone = "Nowhere/City" }},
		{"未知版式", func(c *Config) { c.Report.Layout = "landscape" }},
		{"归档缺少 bucket", func(c *Config) { c.Archive.Enabled = true; c.Archive.Bucket = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("期望校验失败")
			}
		})
	}
}

func loadFromYAML(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return Load(path)
}
