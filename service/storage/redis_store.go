/*
 * @module service/storage/redis_store
 * @description Redis配置存储，固定键下保存配置文档
 * @architecture 适配器模式 - 存储层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow GET读取 -> SET覆盖写
 * @rules 单键SET为原子操作，天然满足整体覆盖语义
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/dashboard/config_manager.go
 */

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisStore Redis配置存储
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore 创建Redis配置存储实例
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Load 加载配置文档
func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("GET命令失败: %w", err)
	}
	return data, nil
}

// Save 整体覆盖写配置文档
func (s *RedisStore) Save(ctx context.Context, doc []byte) error {
	if err := s.client.Set(ctx, s.key, doc, 0).Err(); err != nil {
		return fmt.Errorf("SET命令失败: %w", err)
	}
	return nil
}

// Delete 删除配置文档
func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("DEL命令失败: %w", err)
	}
	return nil
}
