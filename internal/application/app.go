package application

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngoclaw/agenthub/internal/application/usecase"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	"github.com/ngoclaw/agenthub/internal/domain/service"
	"github.com/ngoclaw/agenthub/internal/infrastructure/cache"
	"github.com/ngoclaw/agenthub/internal/infrastructure/config"
	"github.com/ngoclaw/agenthub/internal/infrastructure/llm"
	_ "github.com/ngoclaw/agenthub/internal/infrastructure/llm/openai" // register openai/ollama provider factories
	"github.com/ngoclaw/agenthub/internal/infrastructure/monitoring"
	"github.com/ngoclaw/agenthub/internal/infrastructure/persistence"
	"github.com/ngoclaw/agenthub/internal/infrastructure/seed"
	httpServer "github.com/ngoclaw/agenthub/internal/interfaces/http"
	"github.com/ngoclaw/agenthub/internal/interfaces/http/handlers"
	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
	"github.com/ngoclaw/agenthub/pkg/openapi"
)

// Version 构建版本, 由 -ldflags 覆盖
var Version = "dev"

// App 应用程序
type App struct {
	// 配置
	config *config.Config
	logger *zap.Logger
	db     *gorm.DB

	// 仓储层
	agentRepo   repository.AgentRepository
	modelRepo   repository.ModelRepository
	logRepo     repository.AgentLogRepository
	convRepo    repository.ConversationRepository
	messageRepo repository.MessageRepository
	tx          repository.Transactor

	// 基础设施
	clientCache *cache.Cache[service.LLMClient]
	llmClients  service.LLMClientResolver
	monitor     *monitoring.Monitor

	// 应用服务
	agentUC *usecase.AgentUseCase
	modelUC *usecase.ModelUseCase
	convUC  *usecase.ConversationUseCase
	logUC   *usecase.LogUseCase
	chatUC  *usecase.ChatUseCase

	httpServer *httpServer.Server
}

// Option 覆盖默认依赖, 主要用于测试
type Option func(*App)

// WithDB 使用已建立的数据库连接
func WithDB(db *gorm.DB) Option {
	return func(app *App) { app.db = db }
}

// WithLLMClients 替换 LLM 客户端解析器
func WithLLMClients(r service.LLMClientResolver) Option {
	return func(app *App) { app.llmClients = r }
}

// NewApp 创建应用程序（依赖注入容器）
func NewApp(cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(app)
	}

	// 初始化各层组件
	if err := app.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	if err := app.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to init infrastructure: %w", err)
	}

	app.initApplicationServices()

	if err := app.initInterfaces(); err != nil {
		return nil, fmt.Errorf("failed to init interfaces: %w", err)
	}

	return app, nil
}

// initRepositories 初始化仓储层
func (app *App) initRepositories() error {
	app.logger.Info("Initializing repositories")

	// 连接数据库
	if app.db == nil {
		db, err := persistence.NewDBConnection(&app.config.Database, app.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		app.db = db
	}

	if err := persistence.AutoMigrate(app.db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 初始化 GORM 仓储
	app.agentRepo = persistence.NewGormAgentRepository(app.db)
	app.modelRepo = persistence.NewGormModelRepository(app.db)
	app.logRepo = persistence.NewGormAgentLogRepository(app.db)
	app.convRepo = persistence.NewGormConversationRepository(app.db)
	app.messageRepo = persistence.NewGormMessageRepository(app.db)
	app.tx = persistence.NewGormTransactor(app.db)

	return nil
}

// initInfrastructure 初始化基础设施
func (app *App) initInfrastructure() error {
	app.logger.Info("Initializing infrastructure")
	app.monitor = monitoring.NewMonitor(app.logger)

	if app.llmClients != nil {
		app.llmClients = monitoring.InstrumentResolver(app.llmClients, app.monitor)
		return nil
	}

	clientCache, err := cache.New[service.LLMClient](app.config.Cache.MaxCost, app.config.Cache.TTL)
	if err != nil {
		return fmt.Errorf("failed to create client cache: %w", err)
	}
	app.clientCache = clientCache

	resolver := llm.NewResolver(
		clientCache,
		llm.Options{Timeout: app.config.LLM.Timeout},
		app.config.LLM.PlaceholderAPIKey,
		app.logger,
	)
	app.llmClients = monitoring.InstrumentResolver(resolver, app.monitor)
	app.logger.Info("LLM providers registered", zap.Strings("providers", llm.RegisteredProviders()))
	return nil
}

// initApplicationServices 初始化应用服务
func (app *App) initApplicationServices() {
	app.agentUC = usecase.NewAgentUseCase(
		app.agentRepo, app.modelRepo, app.logRepo, app.convRepo, app.messageRepo, app.tx, app.logger,
	)
	app.modelUC = usecase.NewModelUseCase(app.modelRepo, app.agentRepo, app.tx, app.logger)
	app.convUC = usecase.NewConversationUseCase(app.convRepo, app.messageRepo, app.tx, app.logger)
	app.logUC = usecase.NewLogUseCase(app.agentRepo, app.logRepo)
	app.chatUC = usecase.NewChatUseCase(
		app.agentRepo, app.modelRepo, app.convRepo, app.messageRepo, app.logRepo, app.tx,
		app.llmClients,
		usecase.ChatOptions{
			Timeout:      app.config.LLM.Timeout,
			HistoryLimit: app.config.LLM.HistoryLimit,
			TitleLength:  app.config.LLM.TitleLength,
		},
		app.logger,
	)
}

// initInterfaces 初始化 HTTP 接口
func (app *App) initInterfaces() error {
	spec, err := openapi.MarshalJSON(handlers.BuildSpec(Version))
	if err != nil {
		return fmt.Errorf("failed to build openapi document: %w", err)
	}

	sqlDB, err := app.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	paging := app.config.Pagination
	app.httpServer = httpServer.NewServer(app.config.Server, app.config.Telemetry.ServiceName, app.logger, app.monitor,
		handlers.NewSystemHandler(sqlDB, app.monitor, Version, app.logger),
		handlers.NewDocsHandler(spec),
		handlers.NewAgentHandler(app.agentUC, paging, app.logger),
		handlers.NewLogHandler(app.logUC, paging, app.logger),
		handlers.NewChatHandler(app.chatUC, app.logger),
		handlers.NewModelHandler(app.modelUC, paging, app.logger),
		handlers.NewConversationHandler(app.convUC, paging, app.logger),
	)
	return nil
}

// SeedModels 按目录创建模型, 已存在的同名模型跳过; 返回新建数量
func (app *App) SeedModels(ctx context.Context, catalog *seed.Catalog) (int, error) {
	created := 0
	for _, m := range catalog.Models {
		fields := usecase.ModelFields{
			Name:        &m.Name,
			BaseURL:     &m.BaseURL,
			ModelName:   &m.ModelName,
			MaxTokens:   m.MaxTokens,
			Temperature: m.Temperature,
			TopP:        m.TopP,
		}
		if m.Provider != "" {
			fields.Provider = &m.Provider
		}
		if m.APIKey != "" {
			fields.APIKey = &m.APIKey
		}

		_, err := app.modelUC.Create(ctx, fields)
		switch {
		case err == nil:
			created++
			app.logger.Info("Model seeded", zap.String("name", m.Name))
		case apperrors.IsAlreadyExists(err):
			app.logger.Info("Model already exists, skipped", zap.String("name", m.Name))
		default:
			return created, fmt.Errorf("seed model %q: %w", m.Name, err)
		}
	}
	return created, nil
}

// Start 启动应用程序
func (app *App) Start(ctx context.Context) error {
	app.logger.Info("Starting application")

	// 启动HTTP服务器
	if err := app.httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	app.logger.Info("Application started successfully", zap.String("address", app.httpServer.Addr()))
	return nil
}

// Stop 停止应用程序
func (app *App) Stop(ctx context.Context) error {
	app.logger.Info("Stopping application")

	// 停止HTTP服务器
	if err := app.httpServer.Stop(ctx); err != nil {
		app.logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	if app.clientCache != nil {
		app.clientCache.Close()
	}

	// 关闭数据库连接
	if err := persistence.Close(app.db); err != nil {
		app.logger.Error("Failed to close database connection", zap.Error(err))
	}

	app.logger.Info("Application stopped successfully")
	return nil
}

// Handler 返回 HTTP 处理链
func (app *App) Handler() http.Handler {
	return app.httpServer.Handler()
}

// Logger returns the application logger.
func (app *App) Logger() *zap.Logger {
	return app.logger
}

// AppConfig returns the loaded configuration.
func (app *App) AppConfig() *config.Config {
	return app.config
}
