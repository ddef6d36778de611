package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/application"
	"github.com/ngoclaw/agenthub/internal/infrastructure/config"
	"github.com/ngoclaw/agenthub/internal/infrastructure/logger"
	"github.com/ngoclaw/agenthub/internal/infrastructure/persistence"
	"github.com/ngoclaw/agenthub/internal/infrastructure/seed"
)

const shutdownTimeout = 30 * time.Second

// loadConfig 读取 --config 指定的配置并构建日志器
func loadConfig(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	log, err := logger.NewLogger(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.Output,
		Service:    cfg.Telemetry.ServiceName,
		Version:    application.Version,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger init: %w", err)
	}
	return cfg, log, nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP API 服务",
		RunE:  runServe,
	}
	cmd.Flags().IntP("port", "p", 0, "监听端口 (覆盖配置)")
	cmd.Flags().String("host", "", "监听地址 (覆盖配置)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	// CLI flag overrides
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}

	log.Info("Starting agenthub",
		zap.String("version", application.Version),
		zap.String("address", cfg.Server.Addr()),
		zap.String("database", cfg.Database.Type),
	)

	app, err := application.NewApp(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.Stop(shutdownCtx)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "创建或升级数据库表结构",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := persistence.NewDBConnection(&cfg.Database, log)
			if err != nil {
				return err
			}
			defer persistence.Close(db)

			if err := persistence.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ 数据库迁移完成 (%s)\n", cfg.Database.Type)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "从 yaml 模型目录导入 LLM 模型配置",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			catalog, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			app, err := application.NewApp(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.Stop(context.Background())

			created, err := app.SeedModels(cmd.Context(), catalog)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ 导入 %d 个模型 (目录共 %d 个)\n", created, len(catalog.Models))
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "models.yaml", "模型目录文件")
	return cmd
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "生成默认配置文件",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = "config.yaml"
			}

			log, err := logger.NewLogger(logger.Config{Level: "warn", Format: "console", OutputPath: "stderr"})
			if err != nil {
				return err
			}
			defer log.Sync()

			written, err := config.Bootstrap(path, log)
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "✅ 已生成 %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s 已存在, 未修改\n", path)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cliName, application.Version)
		},
	}
}
