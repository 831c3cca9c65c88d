/*
 * @module service/notify/kafka_notifier
 * @description Kafka通知通道，向固定主题写入配置变更消息
 * @architecture 适配器模式 - 通知层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 事件序列化 -> WriteMessages写入主题
 * @rules 消息键为变更动作，保证同类动作落在同一分区
 * @dependencies github.com/segmentio/kafka-go, encoding/json
 * @refs service/notify/notifier.go
 */

package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"zonedash-service/service/models"

	"github.com/segmentio/kafka-go"
)

// KafkaNotifier Kafka通知通道
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier 创建Kafka通知通道实例
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaNotifier{writer: writer}
}

// Name 通道名称
func (n *KafkaNotifier) Name() string {
	return "kafka"
}

// Publish 写入变更事件消息
func (n *KafkaNotifier) Publish(ctx context.Context, event *models.ConfigChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.Action),
		Value: data,
	}
	if err := n.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("写入消息失败: %w", err)
	}
	return nil
}

// Close 关闭Kafka写入器
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
