/*
 * @module service/notify/mqtt_notifier
 * @description MQTT通知通道，向固定主题发布配置变更
 * @architecture 适配器模式 - 通知层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 建立连接 -> 事件序列化 -> QoS1发布
 * @rules 连接失败时通道不注册；发布失败由分发器记录日志
 * @dependencies github.com/eclipse/paho.mqtt.golang, encoding/json
 * @refs service/notify/notifier.go
 */

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"zonedash-service/service/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// MQTTNotifier MQTT通知通道
type MQTTNotifier struct {
	client mqtt.Client
	topic  string
}

// NewMQTTNotifier 创建MQTT通知通道实例并建立连接
func NewMQTTNotifier(broker, topic string) (*MQTTNotifier, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID("zonedash-notify-" + uuid.New().String()[:8])
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT连接失败: %w", token.Error())
	}

	return &MQTTNotifier{client: client, topic: topic}, nil
}

// Name 通道名称
func (n *MQTTNotifier) Name() string {
	return "mqtt"
}

// Publish 发布变更事件到主题
func (n *MQTTNotifier) Publish(ctx context.Context, event *models.ConfigChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	token := n.client.Publish(n.topic, 1, false, data)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("发布消息失败: %w", token.Error())
	}
	return nil
}

// Close 断开MQTT连接
func (n *MQTTNotifier) Close() error {
	n.client.Disconnect(250)
	return nil
}
