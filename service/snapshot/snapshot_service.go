/*
 * @module service/snapshot/snapshot_service
 * @description 配置快照服务，定时备份配置文档并按保留策略清理，支持按快照恢复
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 定时触发 -> 读取当前文档 -> 写入快照 -> 清理过期快照
 * @rules 恢复操作整体覆盖当前配置文档，恢复后需刷新状态上下文
 * @dependencies gorm.io/gorm, github.com/robfig/cron/v3, zonedash-service/service/storage
 * @refs service/models/snapshot.go, api/controllers/snapshot_controller.go
 */

package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"zonedash-service/service/models"
	"zonedash-service/service/storage"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// SnapshotService 配置快照服务
type SnapshotService struct {
	db        *gorm.DB
	store     storage.ConfigStore
	cron      *cron.Cron
	cronSpec  string
	retention int
}

// NewSnapshotService 创建快照服务实例
func NewSnapshotService(db *gorm.DB, store storage.ConfigStore, cronSpec string, retention int) *SnapshotService {
	if cronSpec == "" {
		cronSpec = "0 */6 * * *" // 每6小时
	}
	if retention <= 0 {
		retention = 20
	}
	return &SnapshotService{
		db:        db,
		store:     store,
		cron:      cron.New(),
		cronSpec:  cronSpec,
		retention: retention,
	}
}

// Start 启动定时快照任务
func (s *SnapshotService) Start() error {
	_, err := s.cron.AddFunc(s.cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.TakeSnapshot(ctx, models.SnapshotReasonScheduled); err != nil {
			slog.Warn("定时快照失败", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("注册快照任务失败: %w", err)
	}

	s.cron.Start()
	slog.Info("快照服务已启动", "cron", s.cronSpec, "retention", s.retention)
	return nil
}

// Stop 停止定时快照任务
func (s *SnapshotService) Stop() {
	s.cron.Stop()
}

// TakeSnapshot 对当前配置文档创建快照
func (s *SnapshotService) TakeSnapshot(ctx context.Context, reason string) (*models.ConfigSnapshot, error) {
	raw, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取当前配置失败: %w", err)
	}

	var doc struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("解析当前配置失败: %w", err)
	}

	record := &models.ConfigSnapshot{
		Document:      string(raw),
		SchemaVersion: doc.SchemaVersion,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("写入快照失败: %w", err)
	}

	if err := s.pruneSnapshots(ctx); err != nil {
		slog.Warn("清理过期快照失败", "error", err)
	}

	slog.Info("配置快照已创建", "snapshot_id", record.ID, "reason", reason)
	return record, nil
}

// ListSnapshots 按创建时间倒序列出快照
func (s *SnapshotService) ListSnapshots(ctx context.Context, limit int) ([]models.ConfigSnapshot, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var snapshots []models.ConfigSnapshot
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("查询快照失败: %w", err)
	}
	return snapshots, nil
}

// GetSnapshot 按ID获取快照
func (s *SnapshotService) GetSnapshot(ctx context.Context, id string) (*models.ConfigSnapshot, error) {
	var snap models.ConfigSnapshot
	err := s.db.WithContext(ctx).First(&snap, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("快照 %s 不存在", id)
		}
		return nil, fmt.Errorf("查询快照失败: %w", err)
	}
	return &snap, nil
}

// RestoreSnapshot 将快照文档写回配置存储
// 调用方负责随后刷新状态上下文
func (s *SnapshotService) RestoreSnapshot(ctx context.Context, id string) error {
	snap, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, []byte(snap.Document)); err != nil {
		return fmt.Errorf("恢复快照失败: %w", err)
	}
	slog.Info("配置快照已恢复", "snapshot_id", id)
	return nil
}

// pruneSnapshots 删除超出保留数量的旧快照
func (s *SnapshotService) pruneSnapshots(ctx context.Context) error {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.ConfigSnapshot{}).Count(&total).Error; err != nil {
		return err
	}
	excess := cast.ToInt(total) - s.retention
	if excess <= 0 {
		return nil
	}

	var victims []models.ConfigSnapshot
	if err := s.db.WithContext(ctx).Order("created_at ASC").Limit(excess).Find(&victims).Error; err != nil {
		return err
	}
	for _, victim := range victims {
		if err := s.db.WithContext(ctx).Delete(&models.ConfigSnapshot{}, "id = ?", victim.ID).Error; err != nil {
			return err
		}
	}
	return nil
}
