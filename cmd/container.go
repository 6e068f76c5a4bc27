// container.go
package main

import (
	"context"
	"fmt"

	"github.com/agentdesk/agentdesk/pkg/ai/llm"
	aiopenai "github.com/agentdesk/agentdesk/pkg/ai/providers/openai"
	"github.com/agentdesk/agentdesk/pkg/calendar/calendarapi"
	"github.com/agentdesk/agentdesk/pkg/chat"
	"github.com/agentdesk/agentdesk/pkg/chat/chatapi"
	"github.com/agentdesk/agentdesk/pkg/chat/chatinfra"
	"github.com/agentdesk/agentdesk/pkg/chat/chatsrv"
	"github.com/agentdesk/agentdesk/pkg/config"
	"github.com/agentdesk/agentdesk/pkg/fsx"
	"github.com/agentdesk/agentdesk/pkg/fsx/fsxlocal"
	"github.com/agentdesk/agentdesk/pkg/fsx/fsxs3"
	"github.com/agentdesk/agentdesk/pkg/history/historyapi"
	"github.com/agentdesk/agentdesk/pkg/history/historyinfra"
	"github.com/agentdesk/agentdesk/pkg/history/historysrv"
	"github.com/agentdesk/agentdesk/pkg/logx"
	"github.com/agentdesk/agentdesk/pkg/notes/notesapi"
	"github.com/agentdesk/agentdesk/pkg/notify/notifyapi"
	"github.com/agentdesk/agentdesk/pkg/notify/notifyinfra"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client

	// Core Services
	ChatService    *chatsrv.ChatService
	HistoryService *historysrv.HistoryService

	// API Handlers
	ChatHandlers     *chatapi.ChatHandlers
	HistoryHandlers  *historyapi.HistoryHandlers
	CalendarHandlers *calendarapi.CalendarHandlers
	NotifyHandlers   *notifyapi.NotifyHandlers
	NotesHandlers    *notesapi.NotesHandlers
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing dependency container...")

	c := &Container{
		Config: cfg,
	}

	c.initInfrastructure()
	c.initServices()

	logx.Info("✅ Container initialized successfully")
	return c
}

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database Connection
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Config.Database.Host,
		c.Config.Database.Port,
		c.Config.Database.User,
		c.Config.Database.Password,
		c.Config.Database.Name,
		c.Config.Database.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("✅ Database connected")

	// 2. Redis Connection (conversation cache)
	if c.Config.Session.StoreType == "redis" {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
			logx.Fatalf("Failed to connect to Redis: %v (Redis is required for the conversation cache)", err)
		}
		logx.Info("✅ Redis connected")
	}

	// 3. Upload Storage (Local or S3)
	c.initFileStorage()

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initFileStorage() {
	switch c.Config.Storage.Mode {
	case "s3":
		cfg, err := awsConfig.LoadDefaultConfig(context.TODO(), awsConfig.WithRegion(c.Config.Storage.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.S3Client = s3.NewFromConfig(cfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, c.Config.Storage.AWSBucket, "")
		logx.Infof("✅ S3 file system configured (bucket: %s, region: %s)", c.Config.Storage.AWSBucket, c.Config.Storage.AWSRegion)

	case "local":
		localFS, err := fsxlocal.NewLocalFileSystem(c.Config.Storage.UploadDir)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		logx.Infof("✅ Local file system configured (path: %s)", localFS.GetBasePath())

	default:
		logx.Fatalf("Unknown STORAGE_MODE: %s (use 'local' or 's3')", c.Config.Storage.Mode)
	}
}

func (c *Container) initServices() {
	logx.Info("🗄️  Initializing repositories and services...")

	// --- Repositories ---
	historyRepo := historyinfra.NewPostgresHistoryRepository(c.DB)

	// --- Conversation Store (Redis in production, memory in dev) ---
	var conversationStore chat.ConversationStore
	if c.Config.Session.StoreType == "redis" {
		conversationStore = chatinfra.NewRedisConversationStore(c.Redis, c.Config.Session.TTL)
		logx.Info("✅ Using Redis conversation store")
	} else {
		conversationStore = chatinfra.NewMemoryConversationStore()
		logx.Warn("⚠️  Using in-memory conversation store (not recommended for production)")
	}

	// --- Completion Provider ---
	provider := aiopenai.NewOpenAIProvider(c.Config.OpenAI.APIKey)
	completions := chatsrv.NewCompletionClient(llm.NewClient(provider), &c.Config.OpenAI)

	// --- Notifier ---
	notifier := notifyinfra.NewWebhookNotifier(&c.Config.Webhook)

	// --- Domain Services ---
	c.HistoryService = historysrv.NewHistoryService(historyRepo)
	c.ChatService = chatsrv.NewChatService(completions, conversationStore, c.HistoryService)

	// --- API Handlers ---
	c.ChatHandlers = chatapi.NewChatHandlers(c.ChatService)
	c.HistoryHandlers = historyapi.NewHistoryHandlers(c.HistoryService)
	c.CalendarHandlers = calendarapi.NewCalendarHandlers()
	c.NotifyHandlers = notifyapi.NewNotifyHandlers(notifier)
	c.NotesHandlers = notesapi.NewNotesHandlers(c.FileSystem)

	logx.Info("✅ All services and handlers initialized")
}

// Cleanup closes all connections
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	// Close database connection
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("✅ Database connection closed")
		}
	}

	// Close Redis connection
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup completed")
}
