/*
 * @module api/controllers/event_controller
 * @description 事件控制器，提供配置变更SSE订阅连接
 * @architecture RESTful API架构 - 控制器层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow SSE连接建立 -> 事件推送循环 -> 连接断开清理
 * @rules 推送为尽力而为，客户端断开后连接立即注销
 * @dependencies zonedash-service/service, github.com/go-chi/render
 * @refs service/event/event_service.go
 */

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"zonedash-service/service"
	"zonedash-service/service/event"

	"github.com/go-chi/render"
)

// EventController 事件控制器
type EventController struct {
	eventService *event.EventService
}

// NewEventController 创建事件控制器实例
func NewEventController() *EventController {
	return &EventController{
		eventService: service.GlobalEventService,
	}
}

// HandleSSE 处理SSE连接
// @Summary 建立SSE连接
// @Description 移动端通过此接口建立SSE连接，接收配置变更事件推送
// @Tags 事件管理
// @Success 200 {string} string "SSE事件流"
// @Router /sse [get]
func (c *EventController) HandleSSE(w http.ResponseWriter, r *http.Request) {
	// 设置SSE响应头
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	clientIP := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		clientIP = forwarded
	}

	client := c.eventService.AddClient(clientIP)
	defer c.eventService.RemoveClient(client.ID)

	// 发送连接成功事件
	fmt.Fprintf(w, "data: {\"type\":\"connected\",\"client_id\":\"%s\",\"timestamp\":\"%s\"}\n\n",
		client.ID, time.Now().Format(time.RFC3339))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	// 处理事件推送
	for {
		select {
		case sseEvent := <-client.Channel:
			fmt.Fprintf(w, "data: %s\n\n", toJSON(sseEvent))

			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-client.Done:
			return

		case <-r.Context().Done():
			return
		}
	}
}

// GetClientCount 获取当前SSE连接数
// @Summary 获取SSE连接数
// @Description 返回当前已连接的SSE客户端数量
// @Tags 事件管理
// @Produce json
// @Success 200 {object} APIResponse
// @Router /events/clients [get]
func (c *EventController) GetClientCount(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, SuccessResponse("获取连接数成功", map[string]interface{}{
		"count": c.eventService.ClientCount(),
	}))
}

// toJSON 将对象转换为JSON字符串
func toJSON(v interface{}) string {
	data, _ := json.Marshal(v)
	return string(data)
}
