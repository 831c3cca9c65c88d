/*
 * @module service/dashboard/migrate
 * @description 配置文档模式迁移，按版本顺序应用结构变换直到当前版本
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 读取版本号 -> 逐版本应用变换 -> 写回版本号
 * @rules 迁移必须幂等：对已是当前版本的文档不做任何修改
 * @dependencies github.com/spf13/cast
 * @refs service/dashboard/config_manager.go
 */

package dashboard

import (
	"fmt"

	"zonedash-service/service/models"

	"github.com/spf13/cast"
)

// migration 单个版本到下一版本的结构变换
type migration struct {
	from  int
	apply func(doc map[string]interface{}) error
}

// 迁移链，按from版本升序排列
// 新模式版本在此追加对应的变换
var migrations = []migration{
	{from: 1, apply: migrateV1ToV2},
}

// MigrateDocument 将文档迁移到当前模式版本
// 返回是否发生了修改；对已是当前版本的文档为无操作
func MigrateDocument(doc map[string]interface{}) (bool, error) {
	version := cast.ToInt(doc["schema_version"])
	if version == 0 {
		// 早期文档没有版本标记，按版本1处理
		version = 1
	}

	if version > models.CurrentSchemaVersion {
		return false, NewValidationError(fmt.Sprintf("文档版本 %d 高于当前支持的版本 %d", version, models.CurrentSchemaVersion))
	}

	changed := false
	for version < models.CurrentSchemaVersion {
		applied := false
		for _, m := range migrations {
			if m.from == version {
				if err := m.apply(doc); err != nil {
					return changed, fmt.Errorf("应用版本 %d 迁移失败: %w", version, err)
				}
				version++
				doc["schema_version"] = version
				changed = true
				applied = true
				break
			}
		}
		if !applied {
			return changed, NewValidationError(fmt.Sprintf("缺少版本 %d 的迁移", version))
		}
	}

	return changed, nil
}

// migrateV1ToV2 版本1到版本2的变换
// 版本1的卡片缺少card_type字段（旧字段名为type），也没有尺寸元数据
func migrateV1ToV2(doc map[string]interface{}) error {
	layouts, ok := doc["layouts"].([]interface{})
	if !ok {
		return fmt.Errorf("layouts字段缺失或类型错误")
	}

	for _, rawLayout := range layouts {
		layout, ok := rawLayout.(map[string]interface{})
		if !ok {
			continue
		}
		cards, ok := layout["cards"].([]interface{})
		if !ok {
			continue
		}
		for _, rawCard := range cards {
			card, ok := rawCard.(map[string]interface{})
			if !ok {
				continue
			}

			if cast.ToString(card["card_type"]) == "" {
				// 旧文档用type字段标记卡片种类
				legacy := cast.ToString(card["type"])
				if legacy == "" {
					legacy = string(models.CardTypeTotalRequests)
				}
				card["card_type"] = legacy
				delete(card, "type")
			}

			if cast.ToString(card["size"]) == "" {
				card["size"] = models.CardSizeMedium
			}
		}
	}

	return nil
}
