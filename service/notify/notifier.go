/*
 * @module service/notify/notifier
 * @description 配置变更外部通知分发器，支持多种消息通道
 * @architecture 适配器模式 - 通知层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 变更事件 -> 异步分发 -> 各通道发布
 * @rules 通知为尽力而为，单个通道失败只记录日志，不影响配置操作
 * @dependencies zonedash-service/service/models
 * @refs service/notify/redis_notifier.go, service/notify/mqtt_notifier.go, service/notify/kafka_notifier.go
 */

package notify

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"zonedash-service/service/models"
)

// Notifier 配置变更通知通道
type Notifier interface {
	Name() string
	Publish(ctx context.Context, event *models.ConfigChangeEvent) error
	Close() error
}

// Dispatcher 通知分发器
type Dispatcher struct {
	notifiers []Notifier
}

// NewDispatcher 创建通知分发器实例
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// NewDispatcherFromEnv 根据环境变量装配通知通道
// NOTIFY_REDIS_ADDR、NOTIFY_MQTT_BROKER、NOTIFY_KAFKA_BROKERS，未设置的通道不启用
func NewDispatcherFromEnv() *Dispatcher {
	d := NewDispatcher()

	if addr := os.Getenv("NOTIFY_REDIS_ADDR"); addr != "" {
		d.Register(NewRedisNotifier(addr, os.Getenv("NOTIFY_REDIS_PASSWORD"), getEnvWithDefault("NOTIFY_REDIS_CHANNEL", "zonedash.config.changes")))
	}

	if broker := os.Getenv("NOTIFY_MQTT_BROKER"); broker != "" {
		notifier, err := NewMQTTNotifier(broker, getEnvWithDefault("NOTIFY_MQTT_TOPIC", "zonedash/config/changes"))
		if err != nil {
			slog.Warn("MQTT通知通道初始化失败", "error", err)
		} else {
			d.Register(notifier)
		}
	}

	if brokers := os.Getenv("NOTIFY_KAFKA_BROKERS"); brokers != "" {
		d.Register(NewKafkaNotifier(strings.Split(brokers, ","), getEnvWithDefault("NOTIFY_KAFKA_TOPIC", "zonedash-config-changes")))
	}

	return d
}

// Register 注册通知通道
func (d *Dispatcher) Register(notifier Notifier) {
	d.notifiers = append(d.notifiers, notifier)
	slog.Info("通知通道已注册", "channel", notifier.Name())
}

// Dispatch 异步分发变更事件到全部通道
func (d *Dispatcher) Dispatch(event *models.ConfigChangeEvent) {
	for _, notifier := range d.notifiers {
		go func(n Notifier) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := n.Publish(ctx, event); err != nil {
				slog.Warn("通知发布失败", "channel", n.Name(), "action", event.Action, "error", err)
			}
		}(notifier)
	}
}

// Close 关闭全部通知通道
func (d *Dispatcher) Close() {
	for _, notifier := range d.notifiers {
		if err := notifier.Close(); err != nil {
			slog.Warn("关闭通知通道失败", "channel", notifier.Name(), "error", err)
		}
	}
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
