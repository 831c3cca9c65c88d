/*
 * @module service/storage/gorm_store
 * @description 数据库配置存储，将配置文档保存为单行记录
 * @architecture 适配器模式 - 存储层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 查询单行 -> upsert覆盖写
 * @rules 单行事务写入保证文档整体原子覆盖
 * @dependencies gorm.io/gorm
 * @refs service/models/dashboard.go
 */

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zonedash-service/service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 数据库配置存储
type GormStore struct {
	db  *gorm.DB
	key string
}

// NewGormStore 创建数据库配置存储实例
func NewGormStore(db *gorm.DB, key string) *GormStore {
	return &GormStore{db: db, key: key}
}

// Load 加载配置文档
func (s *GormStore) Load(ctx context.Context) ([]byte, error) {
	var doc models.DashboardDocument
	err := s.db.WithContext(ctx).First(&doc, "key = ?", s.key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("查询配置文档失败: %w", err)
	}
	return []byte(doc.Value), nil
}

// Save 整体覆盖写配置文档
func (s *GormStore) Save(ctx context.Context, doc []byte) error {
	record := models.DashboardDocument{
		Key:       s.key,
		Value:     string(doc),
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("写入配置文档失败: %w", err)
	}
	return nil
}

// Delete 删除配置文档
func (s *GormStore) Delete(ctx context.Context) error {
	err := s.db.WithContext(ctx).Delete(&models.DashboardDocument{}, "key = ?", s.key).Error
	if err != nil {
		return fmt.Errorf("删除配置文档失败: %w", err)
	}
	return nil
}
