/*
 * @module service/models/event
 * @description 事件模型定义，包括配置变更事件和SSE推送事件
 * @architecture 事件驱动架构 - 数据模型层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 配置变更 -> 事件生成 -> SSE推送/外部通知
 * @rules 事件只描述已成功持久化的变更
 * @dependencies github.com/google/uuid
 * @refs service/event/event_service.go, service/notify/notifier.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
)

// 配置变更动作
const (
	ChangeActionCreateLayout         = "create_layout"
	ChangeActionDeleteLayout         = "delete_layout"
	ChangeActionRenameLayout         = "rename_layout"
	ChangeActionDuplicateLayout      = "duplicate_layout"
	ChangeActionUpdateCardOrder      = "update_card_order"
	ChangeActionToggleCardVisibility = "toggle_card_visibility"
	ChangeActionSwitchLayout         = "switch_layout"
	ChangeActionResetToDefault       = "reset_to_default"
	ChangeActionRefresh              = "refresh"
	ChangeActionRestoreSnapshot      = "restore_snapshot"
)

// ConfigChangeEvent 配置变更事件
// 每次成功持久化的配置变更产生一条事件，用于SSE推送和外部通知
type ConfigChangeEvent struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	LayoutID   string    `json:"layout_id,omitempty"`
	CardID     string    `json:"card_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewConfigChangeEvent 创建配置变更事件
func NewConfigChangeEvent(action, layoutID, cardID string) *ConfigChangeEvent {
	return &ConfigChangeEvent{
		ID:         uuid.New().String(),
		Action:     action,
		LayoutID:   layoutID,
		CardID:     cardID,
		OccurredAt: time.Now(),
	}
}

// SSEEvent SSE推送事件
type SSEEvent struct {
	ID        string                 `json:"id"`
	EventType string                 `json:"event_type"` // config_change, system_notification
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"created_at"`
}
