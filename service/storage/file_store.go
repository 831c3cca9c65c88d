/*
 * @module service/storage/file_store
 * @description 文件配置存储，单个JSON文件保存配置文档
 * @architecture 适配器模式 - 存储层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 读取文件 -> 临时文件写入 -> 重命名覆盖
 * @rules 通过临时文件加rename实现整体原子覆盖，避免半写文档
 * @dependencies os, path/filepath
 * @refs service/dashboard/config_manager.go
 */

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore 文件配置存储
type FileStore struct {
	path string
}

// NewFileStore 创建文件配置存储实例
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load 加载配置文档
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return data, nil
}

// Save 整体覆盖写配置文档
func (s *FileStore) Save(ctx context.Context, doc []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".dashboard_config-*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("替换配置文件失败: %w", err)
	}
	return nil
}

// Delete 删除配置文档
func (s *FileStore) Delete(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除配置文件失败: %w", err)
	}
	return nil
}
