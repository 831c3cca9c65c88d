/*
 * @module service/event/event_service
 * @description 事件服务，向已连接的移动端推送配置变更SSE事件，并监听数据库外部变更通知
 * @architecture 事件驱动架构 - 业务服务层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 配置变更 -> 事件生成 -> SSE客户端推送；数据库NOTIFY -> 外部变更回调
 * @rules 推送为尽力而为，慢客户端丢弃事件而不阻塞广播
 * @dependencies zonedash-service/service/models, github.com/lib/pq
 * @refs service/dashboard/context.go, api/controllers/event_controller.go
 */

package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"zonedash-service/service/models"
	"zonedash-service/service/monitoring"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// 数据库通知频道，外部写入方通过NOTIFY触发配置刷新
const dbNotifyChannel = "dashboard_config_changed"

// SSEClient SSE客户端连接
type SSEClient struct {
	ID       string
	ClientIP string
	Channel  chan *models.SSEEvent
	Done     chan bool
}

// EventService 事件服务
type EventService struct {
	mu               sync.RWMutex
	clients          map[string]*SSEClient
	dbListener       *pq.Listener
	onExternalChange func()
	ctx              context.Context
	cancel           context.CancelFunc
}

// NewEventService 创建事件服务实例
func NewEventService() *EventService {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventService{
		clients: make(map[string]*SSEClient),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetExternalChangeHandler 设置外部变更回调
// 数据库NOTIFY到达时触发，通常用于刷新状态上下文
func (s *EventService) SetExternalChangeHandler(handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExternalChange = handler
}

// AddClient 注册SSE客户端
func (s *EventService) AddClient(clientIP string) *SSEClient {
	client := &SSEClient{
		ID:       uuid.New().String(),
		ClientIP: clientIP,
		Channel:  make(chan *models.SSEEvent, 16),
		Done:     make(chan bool),
	}

	s.mu.Lock()
	s.clients[client.ID] = client
	s.mu.Unlock()

	monitoring.SSEClientConnected()
	slog.Info("SSE客户端已连接", "client_id", client.ID, "client_ip", clientIP)
	return client
}

// RemoveClient 注销SSE客户端
func (s *EventService) RemoveClient(clientID string) {
	s.mu.Lock()
	client, exists := s.clients[clientID]
	if exists {
		delete(s.clients, clientID)
	}
	s.mu.Unlock()

	if exists {
		close(client.Done)
		monitoring.SSEClientDisconnected()
		slog.Info("SSE客户端已断开", "client_id", clientID)
	}
}

// ClientCount 当前连接的客户端数量
func (s *EventService) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// BroadcastConfigChange 向全部客户端广播配置变更事件
func (s *EventService) BroadcastConfigChange(event *models.ConfigChangeEvent) {
	sseEvent := &models.SSEEvent{
		ID:        event.ID,
		EventType: "config_change",
		Data: map[string]interface{}{
			"action":      event.Action,
			"layout_id":   event.LayoutID,
			"card_id":     event.CardID,
			"occurred_at": event.OccurredAt,
		},
		CreatedAt: time.Now(),
	}
	s.broadcast(sseEvent)
}

// broadcast 广播事件，慢客户端丢弃而不阻塞
func (s *EventService) broadcast(event *models.SSEEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, client := range s.clients {
		select {
		case client.Channel <- event:
		default:
			slog.Warn("SSE客户端缓冲已满，事件被丢弃", "client_id", client.ID, "event_id", event.ID)
		}
	}
}

// StartDBListener 启动数据库变更监听
// 仅在使用postgres存储时有效，外部写入方NOTIFY后触发配置刷新
func (s *EventService) StartDBListener(dsn string) error {
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			slog.Warn("数据库监听器事件", "event", int(ev), "error", err)
		}
	})

	if err := listener.Listen(dbNotifyChannel); err != nil {
		listener.Close()
		return err
	}

	s.dbListener = listener
	go s.listenDBNotifications()

	slog.Info("数据库变更监听已启动", "channel", dbNotifyChannel)
	return nil
}

// listenDBNotifications 处理数据库通知循环
func (s *EventService) listenDBNotifications() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case notification := <-s.dbListener.Notify:
			if notification == nil {
				// 连接重建后收到nil通知
				continue
			}
			s.handleDBNotification(notification)
		case <-time.After(90 * time.Second):
			go s.dbListener.Ping()
		}
	}
}

// handleDBNotification 处理单条数据库通知
func (s *EventService) handleDBNotification(notification *pq.Notification) {
	slog.Debug("收到数据库变更通知", "channel", notification.Channel)

	var payload map[string]interface{}
	if notification.Extra != "" {
		if err := json.Unmarshal([]byte(notification.Extra), &payload); err != nil {
			slog.Warn("解析通知载荷失败", "error", err)
			payload = map[string]interface{}{"raw": notification.Extra}
		}
	}

	s.mu.RLock()
	handler := s.onExternalChange
	s.mu.RUnlock()
	if handler != nil {
		handler()
	}

	s.broadcast(&models.SSEEvent{
		ID:        uuid.New().String(),
		EventType: "system_notification",
		Data:      payload,
		CreatedAt: time.Now(),
	})
}

// Stop 停止事件服务
func (s *EventService) Stop() {
	s.cancel()

	if s.dbListener != nil {
		if err := s.dbListener.Close(); err != nil {
			slog.Warn("关闭数据库监听器失败", "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, client := range s.clients {
		close(client.Done)
		delete(s.clients, id)
	}
}
