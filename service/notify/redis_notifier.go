/*
 * @module service/notify/redis_notifier
 * @description Redis通知通道，通过发布订阅推送配置变更
 * @architecture 适配器模式 - 通知层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 事件序列化 -> PUBLISH到固定频道
 * @rules 发布失败由分发器记录日志，不重试
 * @dependencies github.com/go-redis/redis/v8, encoding/json
 * @refs service/notify/notifier.go
 */

package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"zonedash-service/service/models"

	"github.com/go-redis/redis/v8"
)

// RedisNotifier Redis发布订阅通知通道
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

// NewRedisNotifier 创建Redis通知通道实例
func NewRedisNotifier(addr, password, channel string) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisNotifier{client: client, channel: channel}
}

// Name 通道名称
func (n *RedisNotifier) Name() string {
	return "redis"
}

// Publish 发布变更事件到频道
func (n *RedisNotifier) Publish(ctx context.Context, event *models.ConfigChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, data).Err(); err != nil {
		return fmt.Errorf("PUBLISH命令失败: %w", err)
	}
	return nil
}

// Close 关闭Redis客户端
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
