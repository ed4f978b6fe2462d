package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/irvinmora/sistema-limpieza/config"
	"github.com/irvinmora/sistema-limpieza/internal/api/handler"
	"github.com/irvinmora/sistema-limpieza/internal/api/router"
	"github.com/irvinmora/sistema-limpieza/internal/archive"
	"github.com/irvinmora/sistema-limpieza/internal/model"
	"github.com/irvinmora/sistema-limpieza/internal/repository"
	"github.com/irvinmora/sistema-limpieza/internal/service"
	"github.com/irvinmora/sistema-limpieza/internal/store"
	"github.com/irvinmora/sistema-limpieza/pkg/clock"
	applogger "github.com/irvinmora/sistema-limpieza/pkg/logger"
	"github.com/irvinmora/sistema-limpieza/pkg/metrics"
	"github.com/irvinmora/sistema-limpieza/pkg/redis"
)

func main() {
	// 0. .env（可选，不覆盖已存在的环境变量）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "读取 .env 失败: %v\n", err)
	}

	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("LIMPIEZA_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("data_dir", cfg.Storage.DataDir),
		zap.String("timezone", cfg.Report.Timezone),
	)

	clk, err := clock.NewSystemFromName(cfg.Report.Timezone)
	if err != nil {
		logger.Fatal("加载时区失败", zap.Error(err))
	}

	// 3. 指标（可关闭）
	var m *metrics.Metrics
	if cfg.Feature.MetricsEnabled {
		m = metrics.New()
	}

	// 4. 存储：JSON 文件或 Excel 工作簿
	var st store.Store
	switch cfg.Storage.Driver {
	case "xlsx":
		st = store.NewXLSXStore(filepath.Join(cfg.Storage.DataDir, cfg.Storage.Workbook), logger, m)
	default:
		st = store.NewFileStore(cfg.Storage.DataDir, logger, m)
	}
	if err := st.Ensure(model.CollectionStudents, model.CollectionCleaningHistory); err != nil {
		logger.Fatal("初始化数据文件失败", zap.Error(err))
	}
	repo := repository.NewRepository(st, logger)
	logger.Info("数据加载完成",
		zap.Int("students", len(repo.Students())),
		zap.Int("records", len(repo.Records())),
	)

	// 5. 连接 Redis（可选：连接失败时不限流）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，写接口限流将不可用", zap.Error(err))
			rdb = nil
		}
	}

	// 6. 报表归档（可选）
	var arch archive.Archiver = archive.Noop{}
	if cfg.Archive.Enabled {
		initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s3Arch, err := archive.NewS3Archiver(initCtx, &cfg.Archive)
		cancel()
		if err != nil {
			logger.Warn("初始化报表归档失败，仅本地保存", zap.Error(err))
		} else {
			arch = s3Arch
		}
	}

	// 7. 依赖注入: Repository → Service → Handler
	svc := service.NewService(cfg, repo, clk, arch, m, logger)
	h := handler.NewHandler(svc)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, rdb, m, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
