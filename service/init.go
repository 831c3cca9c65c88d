/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、配置存储装配和全局服务组装
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 应用启动时执行初始化流程：数据库 -> 存储 -> 配置管理器 -> 状态上下文 -> 事件/通知/快照
 * @rules 确保所有依赖服务正常启动后才提供API服务；未配置PostgreSQL时回退SQLite本地文件
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres, gorm.io/driver/sqlite
 * @refs dev_docs/model.md
 */

package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"zonedash-service/service/dashboard"
	"zonedash-service/service/event"
	"zonedash-service/service/models"
	"zonedash-service/service/notify"
	"zonedash-service/service/snapshot"
	"zonedash-service/service/storage"
	"zonedash-service/service/theme"

	"github.com/spf13/cast"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	DB                     *gorm.DB
	GlobalConfigStore      storage.ConfigStore
	GlobalConfigManager    *dashboard.ConfigManager
	GlobalDashboardContext *dashboard.Context
	GlobalEventService     *event.EventService
	GlobalNotifyDispatcher *notify.Dispatcher
	GlobalSnapshotService  *snapshot.SnapshotService
	GlobalThemeService     *theme.ThemeService

	postgresDSN string
)

func init() {
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接
// 配置了DATABASE_URL或DB_HOST时使用PostgreSQL，否则回退SQLite本地文件
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else if host := os.Getenv("DB_HOST"); host != "" {
		// 使用分离的环境变量构建连接字符串
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "zonedash2024")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Asia/Shanghai",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	if dsn != "" {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		postgresDSN = dsn
	} else {
		sqlitePath := getEnvWithDefault("SQLITE_PATH", "zonedash.db")
		DB, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	log.Println("开始运行数据库迁移...")

	if err := DB.AutoMigrate(&models.DashboardDocument{}, &models.ConfigSnapshot{}); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	log.Println("数据库表结构迁移完成")
}

// initServices 初始化服务
func initServices() {
	GlobalConfigStore = storage.NewConfigStoreFromEnv(DB)
	GlobalConfigManager = dashboard.NewConfigManager(GlobalConfigStore)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	GlobalDashboardContext, err = dashboard.NewContext(ctx, GlobalConfigManager)
	if err != nil {
		log.Fatalf("仪表盘状态上下文初始化失败: %v", err)
	}

	GlobalEventService = event.NewEventService()
	GlobalEventService.SetExternalChangeHandler(func() {
		// 外部写入通知触发重新加载
		refreshCtx, refreshCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer refreshCancel()
		if err := GlobalDashboardContext.RefreshConfig(refreshCtx); err != nil {
			log.Printf("外部变更刷新配置失败: %v", err)
		}
	})

	GlobalNotifyDispatcher = notify.NewDispatcherFromEnv()
	GlobalThemeService = theme.NewThemeService()

	// 配置变更 -> SSE广播 + 外部通知分发
	GlobalDashboardContext.AddChangeListener(func(changeEvent *models.ConfigChangeEvent) {
		GlobalEventService.BroadcastConfigChange(changeEvent)
		GlobalNotifyDispatcher.Dispatch(changeEvent)
	})

	// LISTEN/NOTIFY仅在PostgreSQL下可用
	if postgresDSN != "" {
		if err := GlobalEventService.StartDBListener(postgresDSN); err != nil {
			log.Printf("启动数据库监听失败: %v", err)
		}
	}

	GlobalSnapshotService = snapshot.NewSnapshotService(DB, GlobalConfigStore,
		os.Getenv("SNAPSHOT_CRON"), cast.ToInt(getEnvWithDefault("SNAPSHOT_RETENTION", "20")))
	if getEnvWithDefault("SNAPSHOT_ENABLED", "true") == "true" {
		if err := GlobalSnapshotService.Start(); err != nil {
			log.Printf("启动快照服务失败: %v", err)
		}
	}

	log.Println("服务初始化完成")
}
