/*
 * @module service/storage/store
 * @description 配置文档存储抽象，定义固定键下单文档的读写接口
 * @architecture 适配器模式 - 存储层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 加载文档 -> 整体覆盖写 -> 删除（仅重置时）
 * @rules 文档始终整体读写，不做部分更新；键固定且仅本服务读写
 * @dependencies context
 * @refs service/dashboard/config_manager.go
 */

package storage

import (
	"context"
	"errors"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// ConfigKey 配置文档的固定存储键
const ConfigKey = "dashboard:config"

// ErrConfigNotFound 存储中不存在配置文档
var ErrConfigNotFound = errors.New("配置文档不存在")

// ConfigStore 配置文档存储接口
// 文档为序列化后的完整JSON，实现负责固定键下的整体读写
type ConfigStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, doc []byte) error
	Delete(ctx context.Context) error
}

// NewConfigStoreFromEnv 根据环境变量选择存储后端
// CONFIG_STORE: db（默认）、file、redis
func NewConfigStoreFromEnv(db *gorm.DB) ConfigStore {
	switch os.Getenv("CONFIG_STORE") {
	case "file":
		path := os.Getenv("CONFIG_FILE_PATH")
		if path == "" {
			path = "dashboard_config.json"
		}
		return NewFileStore(path)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       cast.ToInt(os.Getenv("REDIS_DB")),
		})
		return NewRedisStore(client, ConfigKey)
	default:
		return NewGormStore(db, ConfigKey)
	}
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
