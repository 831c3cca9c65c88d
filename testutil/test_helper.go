/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference .specify/memory/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify, time
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zonedash-service/service/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.DashboardDocument{},
		&models.ConfigSnapshot{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	// 清空所有表的数据
	tables := []string{
		"dashboard_documents",
		"config_snapshots",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// LayoutOption 布局选项函数类型
type LayoutOption func(*models.DashboardLayout)

// BuildLayout 构建测试布局，包含全部卡片类型
func (f *TestDataFactory) BuildLayout(id, name string, opts ...LayoutOption) *models.DashboardLayout {
	now := time.Now()
	layout := &models.DashboardLayout{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for i, cardType := range models.AllCardTypes {
		layout.Cards = append(layout.Cards, models.MetricCard{
			ID:       fmt.Sprintf("card_%s", cardType),
			CardType: cardType,
			Visible:  true,
			Order:    i,
			Size:     models.CardSizeMedium,
		})
	}

	// 应用选项
	for _, opt := range opts {
		opt(layout)
	}

	return layout
}

// BuildConfig 构建测试配置
func (f *TestDataFactory) BuildConfig(layouts ...*models.DashboardLayout) *models.DashboardConfig {
	config := &models.DashboardConfig{
		SchemaVersion: models.CurrentSchemaVersion,
	}
	for _, layout := range layouts {
		config.Layouts = append(config.Layouts, *layout)
	}
	if len(config.Layouts) > 0 {
		config.ActiveLayoutID = config.Layouts[0].ID
	}
	return config
}

// CreateSnapshot 创建测试快照记录
func (f *TestDataFactory) CreateSnapshot(document string, reason string) *models.ConfigSnapshot {
	snap := &models.ConfigSnapshot{
		Document:      document,
		SchemaVersion: models.CurrentSchemaVersion,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}

	err := f.DB.Create(snap).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test snapshot: %v", err))
	}

	return snap
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
