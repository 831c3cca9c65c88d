/*
 * @module service/models/dashboard
 * @description 看板配置数据模型，包括指标卡片、布局和配置文档
 * @architecture 数据模型层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 配置创建 -> 配置加载/迁移/校验 -> 配置变更 -> 整体持久化
 * @rules 布局列表非空；活动布局必须存在；卡片顺序为连续排列；每个布局至少保留一张可见卡片
 * @dependencies encoding/json, time
 * @refs service/dashboard/config_manager.go
 */

package models

import (
	"encoding/json"
	"time"
)

// CurrentSchemaVersion 当前配置文档的模式版本
const CurrentSchemaVersion = 2

// CardType 指标卡片类型
type CardType string

const (
	CardTypeTotalRequests   CardType = "total_requests"   // 总请求数
	CardTypeDataTransfer    CardType = "data_transfer"    // 数据传输量
	CardTypeBandwidth       CardType = "bandwidth"        // 带宽
	CardTypeCacheHitRate    CardType = "cache_hit_rate"   // 缓存命中率
	CardTypeFirewallEvents  CardType = "firewall_events"  // 防火墙事件
	CardTypeBlockedRequests CardType = "blocked_requests" // 拦截请求数
	CardTypeStatusCodes     CardType = "status_codes"     // 状态码分布
	CardTypeBotTraffic      CardType = "bot_traffic"      // 机器人流量
	CardTypeGeoDistribution CardType = "geo_distribution" // 地理分布
)

// AllCardTypes 所有支持的卡片类型，顺序即默认布局中的展示顺序
var AllCardTypes = []CardType{
	CardTypeTotalRequests,
	CardTypeDataTransfer,
	CardTypeBandwidth,
	CardTypeCacheHitRate,
	CardTypeFirewallEvents,
	CardTypeBlockedRequests,
	CardTypeStatusCodes,
	CardTypeBotTraffic,
	CardTypeGeoDistribution,
}

// IsValid 检查卡片类型是否在支持的枚举范围内
func (t CardType) IsValid() bool {
	for _, ct := range AllCardTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// 卡片尺寸
const (
	CardSizeSmall  = "small"
	CardSizeMedium = "medium"
	CardSizeLarge  = "large"
)

// MetricCard 指标卡片
type MetricCard struct {
	ID       string   `json:"id"`
	CardType CardType `json:"card_type"`
	Visible  bool     `json:"visible"`
	Order    int      `json:"order"`
	Size     string   `json:"size,omitempty"`
	Config   JSONB    `json:"config,omitempty"`
}

// DashboardLayout 看板布局，一组有序的指标卡片
type DashboardLayout struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Cards     []MetricCard `json:"cards"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// FindCard 按ID查找卡片，不存在时返回nil
func (l *DashboardLayout) FindCard(cardID string) *MetricCard {
	for i := range l.Cards {
		if l.Cards[i].ID == cardID {
			return &l.Cards[i]
		}
	}
	return nil
}

// VisibleCount 统计布局中可见卡片数量
func (l *DashboardLayout) VisibleCount() int {
	count := 0
	for i := range l.Cards {
		if l.Cards[i].Visible {
			count++
		}
	}
	return count
}

// DashboardConfig 看板配置文档，整体作为单个JSON文档持久化
type DashboardConfig struct {
	SchemaVersion  int               `json:"schema_version"`
	Layouts        []DashboardLayout `json:"layouts"`
	ActiveLayoutID string            `json:"active_layout_id"`
}

// FindLayout 按ID查找布局，不存在时返回nil
func (c *DashboardConfig) FindLayout(layoutID string) *DashboardLayout {
	for i := range c.Layouts {
		if c.Layouts[i].ID == layoutID {
			return &c.Layouts[i]
		}
	}
	return nil
}

// Clone 深拷贝配置文档
// 通过JSON往返实现，保证与持久化形态一致
func (c *DashboardConfig) Clone() *DashboardConfig {
	data, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	clone := &DashboardConfig{}
	if err := json.Unmarshal(data, clone); err != nil {
		return nil
	}
	return clone
}

// DashboardDocument 看板配置文档的数据库存储模型
// 整个配置序列化为单行JSON，固定键覆盖写
type DashboardDocument struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (DashboardDocument) TableName() string {
	return "dashboard_documents"
}
