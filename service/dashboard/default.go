/*
 * @module service/dashboard/default
 * @description 默认看板配置构造，首次启动和校验失败回退时使用
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 首次加载/重置/校验失败 -> 构造默认配置 -> 持久化
 * @rules 默认配置必须满足全部配置不变量
 * @dependencies zonedash-service/service/models
 * @refs service/dashboard/config_manager.go
 */

package dashboard

import (
	"time"

	"zonedash-service/service/models"
)

// DefaultLayoutID 默认布局的固定标识
const DefaultLayoutID = "default"

// 默认布局中初始可见的卡片类型
var defaultVisibleTypes = map[models.CardType]bool{
	models.CardTypeTotalRequests:  true,
	models.CardTypeDataTransfer:   true,
	models.CardTypeCacheHitRate:   true,
	models.CardTypeFirewallEvents: true,
	models.CardTypeStatusCodes:    true,
}

// DefaultConfig 构造默认看板配置
// 单个布局包含全部卡片类型，常用五张可见，其余隐藏
func DefaultConfig() *models.DashboardConfig {
	now := time.Now()
	cards := make([]models.MetricCard, 0, len(models.AllCardTypes))
	for i, cardType := range models.AllCardTypes {
		cards = append(cards, models.MetricCard{
			ID:       "card_" + string(cardType),
			CardType: cardType,
			Visible:  defaultVisibleTypes[cardType],
			Order:    i,
			Size:     models.CardSizeMedium,
		})
	}

	return &models.DashboardConfig{
		SchemaVersion: models.CurrentSchemaVersion,
		Layouts: []models.DashboardLayout{
			{
				ID:        DefaultLayoutID,
				Name:      "默认布局",
				Cards:     cards,
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		ActiveLayoutID: DefaultLayoutID,
	}
}
