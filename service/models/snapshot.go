/*
 * @module service/models/snapshot
 * @description 配置快照模型，保存看板配置文档的历史副本
 * @architecture 数据模型层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 快照创建 -> 按保留策略清理 -> 按需恢复
 * @rules 快照为完整文档副本，恢复时整体覆盖当前配置
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/snapshot/snapshot_service.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 快照来源
const (
	SnapshotReasonScheduled = "scheduled" // 定时任务
	SnapshotReasonManual    = "manual"    // 用户手动
	SnapshotReasonPreReset  = "pre_reset" // 重置前自动备份
)

// ConfigSnapshot 看板配置快照
type ConfigSnapshot struct {
	ID            string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Document      string    `gorm:"type:text;not null" json:"document"`
	SchemaVersion int       `gorm:"not null" json:"schema_version"`
	Reason        string    `gorm:"type:varchar(20);not null" json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName 指定表名
func (ConfigSnapshot) TableName() string {
	return "config_snapshots"
}

// BeforeCreate 创建前钩子
func (s *ConfigSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
