/*
 * @module service/dashboard/config_manager
 * @description 看板配置管理器，配置文档读取、校验、迁移和变更的唯一写入方
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 配置加载 -> 迁移 -> 校验 -> 变更操作（克隆-修改-整体持久化）
 * @rules 所有变更操作先在克隆上修改并校验，持久化成功后才返回新文档；失败时调用方持有的文档不受影响
 * @dependencies zonedash-service/service/models, zonedash-service/service/storage, github.com/google/uuid
 * @refs service/dashboard/context.go, service/storage/store.go
 */

package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"zonedash-service/service/models"
	"zonedash-service/service/storage"

	"github.com/google/uuid"
)

// ConfigManager 看板配置管理器
type ConfigManager struct {
	store storage.ConfigStore
}

// NewConfigManager 创建配置管理器实例
func NewConfigManager(store storage.ConfigStore) *ConfigManager {
	return &ConfigManager{store: store}
}

// LoadConfig 加载配置文档
// 存储中无文档时创建并持久化默认配置；文档损坏或校验失败时记录日志并回退默认配置，不向调用方抛错
func (m *ConfigManager) LoadConfig(ctx context.Context) (*models.DashboardConfig, error) {
	raw, err := m.store.Load(ctx)
	if err != nil {
		if err == storage.ErrConfigNotFound {
			config := DefaultConfig()
			if saveErr := m.SaveConfig(ctx, config); saveErr != nil {
				return nil, saveErr
			}
			return config, nil
		}
		// 存储读取失败降级为默认配置，不阻塞启动
		slog.Warn("读取配置存储失败，使用默认配置", "error", err)
		return DefaultConfig(), nil
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.Warn("配置文档解析失败，回退默认配置", "error", err)
		return m.recoverDefault(ctx), nil
	}

	migrated, err := MigrateDocument(doc)
	if err != nil {
		slog.Warn("配置文档迁移失败，回退默认配置", "error", err)
		return m.recoverDefault(ctx), nil
	}

	config, err := decodeConfig(doc)
	if err != nil {
		slog.Warn("配置文档反序列化失败，回退默认配置", "error", err)
		return m.recoverDefault(ctx), nil
	}

	if err := validateConfig(config); err != nil {
		slog.Warn("配置文档校验失败，回退默认配置", "error", err)
		return m.recoverDefault(ctx), nil
	}

	if migrated {
		if err := m.SaveConfig(ctx, config); err != nil {
			slog.Warn("迁移后的配置持久化失败", "error", err)
		}
	}

	return config, nil
}

// SaveConfig 序列化并整体持久化配置文档
func (m *ConfigManager) SaveConfig(ctx context.Context, config *models.DashboardConfig) error {
	if err := validateConfig(config); err != nil {
		return err
	}
	data, err := json.Marshal(config)
	if err != nil {
		return NewStorageError("序列化配置失败", err)
	}
	if err := m.store.Save(ctx, data); err != nil {
		return NewStorageError("持久化配置失败", err)
	}
	return nil
}

// CreateLayout 新建布局，可选从已有布局克隆卡片
func (m *ConfigManager) CreateLayout(ctx context.Context, config *models.DashboardConfig, name, baseLayoutID string) (*models.DashboardConfig, *models.DashboardLayout, error) {
	if name == "" {
		return nil, nil, NewInvalidOperationError("布局名称不能为空")
	}

	next := config.Clone()
	now := time.Now()

	var cards []models.MetricCard
	if baseLayoutID != "" {
		base := next.FindLayout(baseLayoutID)
		if base == nil {
			return nil, nil, NewNotFoundError(fmt.Sprintf("布局 %s 不存在", baseLayoutID))
		}
		cards = cloneCards(base.Cards)
	} else {
		cards = cloneCards(DefaultConfig().Layouts[0].Cards)
	}

	layout := models.DashboardLayout{
		ID:        uuid.New().String(),
		Name:      name,
		Cards:     cards,
		CreatedAt: now,
		UpdatedAt: now,
	}
	next.Layouts = append(next.Layouts, layout)

	if err := m.SaveConfig(ctx, next); err != nil {
		return nil, nil, err
	}
	return next, next.FindLayout(layout.ID), nil
}

// DeleteLayout 删除布局
// 拒绝删除最后一个布局；删除的是活动布局时，活动指针指向剩余的第一个布局
func (m *ConfigManager) DeleteLayout(ctx context.Context, config *models.DashboardConfig, layoutID string) (*models.DashboardConfig, error) {
	next := config.Clone()

	if next.FindLayout(layoutID) == nil {
		return nil, NewNotFoundError(fmt.Sprintf("布局 %s 不存在", layoutID))
	}
	if len(next.Layouts) == 1 {
		return nil, NewInvalidOperationError("无法删除最后一个布局")
	}

	layouts := make([]models.DashboardLayout, 0, len(next.Layouts)-1)
	for _, layout := range next.Layouts {
		if layout.ID != layoutID {
			layouts = append(layouts, layout)
		}
	}
	next.Layouts = layouts

	if next.ActiveLayoutID == layoutID {
		next.ActiveLayoutID = next.Layouts[0].ID
	}

	if err := m.SaveConfig(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// RenameLayout 重命名布局，名称不要求唯一
func (m *ConfigManager) RenameLayout(ctx context.Context, config *models.DashboardConfig, layoutID, newName string) (*models.DashboardConfig, error) {
	if newName == "" {
		return nil, NewInvalidOperationError("布局名称不能为空")
	}

	next := config.Clone()
	layout := next.FindLayout(layoutID)
	if layout == nil {
		return nil, NewNotFoundError(fmt.Sprintf("布局 %s 不存在", layoutID))
	}

	layout.Name = newName
	layout.UpdatedAt = time.Now()

	if err := m.SaveConfig(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// DuplicateLayout 深拷贝布局，包括全部卡片的顺序和可见性
// 未指定新名称时使用源名称加副本后缀
func (m *ConfigManager) DuplicateLayout(ctx context.Context, config *models.DashboardConfig, layoutID, newName string) (*models.DashboardConfig, *models.DashboardLayout, error) {
	next := config.Clone()
	source := next.FindLayout(layoutID)
	if source == nil {
		return nil, nil, NewNotFoundError(fmt.Sprintf("布局 %s 不存在", layoutID))
	}

	if newName == "" {
		newName = source.Name + " (副本)"
	}

	now := time.Now()
	copyLayout := models.DashboardLayout{
		ID:        uuid.New().String(),
		Name:      newName,
		Cards:     cloneCards(source.Cards),
		CreatedAt: now,
		UpdatedAt: now,
	}
	next.Layouts = append(next.Layouts, copyLayout)

	if err := m.SaveConfig(ctx, next); err != nil {
		return nil, nil, err
	}
	return next, next.FindLayout(copyLayout.ID), nil
}

// UpdateCardOrder 按给定序列重排布局中的卡片
// 序列必须恰好是现有卡片ID的一个排列，否则拒绝
func (m *ConfigManager) UpdateCardOrder(ctx context.Context, config *models.DashboardConfig, layoutID string, orderedCardIDs []string) (*models.DashboardConfig, error) {
	next := config.Clone()
	layout := next.FindLayout(layoutID)
	if layout == nil {
		return nil, NewNotFoundError(fmt.Sprintf("布局 %s 不存在", layoutID))
	}

	if len(orderedCardIDs) != len(layout.Cards) {
		return nil, NewInvalidOperationError("卡片顺序序列与布局中的卡片不匹配")
	}
	existing := make(map[string]models.MetricCard, len(layout.Cards))
	for _, card := range layout.Cards {
		existing[card.ID] = card
	}

	reordered := make([]models.MetricCard, 0, len(orderedCardIDs))
	seen := make(map[string]bool, len(orderedCardIDs))
	for i, cardID := range orderedCardIDs {
		card, ok := existing[cardID]
		if !ok || seen[cardID] {
			return nil, NewInvalidOperationError("卡片顺序序列与布局中的卡片不匹配")
		}
		seen[cardID] = true
		card.Order = i
		reordered = append(reordered, card)
	}

	layout.Cards = reordered
	layout.UpdatedAt = time.Now()

	if err := m.SaveConfig(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// ToggleCardVisibility 切换卡片可见性
// 拒绝隐藏布局中最后一张可见卡片
func (m *ConfigManager) ToggleCardVisibility(ctx context.Context, config *models.DashboardConfig, layoutID, cardID string) (*models.DashboardConfig, error) {
	next := config.Clone()
	layout := next.FindLayout(layoutID)
	if layout == nil {
		return nil, NewNotFoundError(fmt.Sprintf("布局 %s 不存在", layoutID))
	}
	card := layout.FindCard(cardID)
	if card == nil {
		return nil, NewNotFoundError(fmt.Sprintf("卡片 %s 不存在", cardID))
	}

	if card.Visible && layout.VisibleCount() == 1 {
		return nil, NewInvalidOperationError("无法隐藏布局中最后一张可见卡片")
	}

	card.Visible = !card.Visible
	layout.UpdatedAt = time.Now()

	if err := m.SaveConfig(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// SwitchLayout 切换活动布局
func (m *ConfigManager) SwitchLayout(ctx context.Context, config *models.DashboardConfig, layoutID string) (*models.DashboardConfig, error) {
	next := config.Clone()
	if next.FindLayout(layoutID) == nil {
		return nil, NewNotFoundError(fmt.Sprintf("布局 %s 不存在", layoutID))
	}

	next.ActiveLayoutID = layoutID

	if err := m.SaveConfig(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// ResetToDefault 用默认配置整体替换并持久化
func (m *ConfigManager) ResetToDefault(ctx context.Context) (*models.DashboardConfig, error) {
	config := DefaultConfig()
	if err := m.SaveConfig(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

// recoverDefault 校验失败后的回退：持久化默认配置并返回
func (m *ConfigManager) recoverDefault(ctx context.Context) *models.DashboardConfig {
	config := DefaultConfig()
	if err := m.SaveConfig(ctx, config); err != nil {
		slog.Warn("默认配置持久化失败", "error", err)
	}
	return config
}

// validateConfig 校验配置文档的全部不变量
func validateConfig(config *models.DashboardConfig) error {
	if config == nil {
		return NewValidationError("配置不能为空")
	}
	if len(config.Layouts) == 0 {
		return NewValidationError("布局列表不能为空")
	}
	if config.FindLayout(config.ActiveLayoutID) == nil {
		return NewValidationError(fmt.Sprintf("活动布局 %s 不存在", config.ActiveLayoutID))
	}

	for i := range config.Layouts {
		layout := &config.Layouts[i]
		if layout.ID == "" {
			return NewValidationError("布局ID不能为空")
		}

		seenIDs := make(map[string]bool, len(layout.Cards))
		seenOrders := make(map[int]bool, len(layout.Cards))
		visible := 0
		for _, card := range layout.Cards {
			if card.ID == "" {
				return NewValidationError(fmt.Sprintf("布局 %s 中存在空卡片ID", layout.ID))
			}
			if seenIDs[card.ID] {
				return NewValidationError(fmt.Sprintf("布局 %s 中卡片ID %s 重复", layout.ID, card.ID))
			}
			seenIDs[card.ID] = true

			if !card.CardType.IsValid() {
				return NewValidationError(fmt.Sprintf("布局 %s 中卡片类型 %s 非法", layout.ID, card.CardType))
			}

			if card.Order < 0 || card.Order >= len(layout.Cards) || seenOrders[card.Order] {
				return NewValidationError(fmt.Sprintf("布局 %s 的卡片顺序不是连续排列", layout.ID))
			}
			seenOrders[card.Order] = true

			if card.Visible {
				visible++
			}
		}

		if len(layout.Cards) > 0 && visible == 0 {
			return NewValidationError(fmt.Sprintf("布局 %s 中没有可见卡片", layout.ID))
		}
	}

	return nil
}

// decodeConfig 将通用文档转为配置结构
func decodeConfig(doc map[string]interface{}) (*models.DashboardConfig, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	config := &models.DashboardConfig{}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}

// cloneCards 深拷贝卡片列表并分配新ID，保留顺序和可见性
func cloneCards(cards []models.MetricCard) []models.MetricCard {
	clones := make([]models.MetricCard, 0, len(cards))
	for _, card := range cards {
		clone := card
		clone.ID = uuid.New().String()
		if card.Config != nil {
			clone.Config = models.JSONB{}
			for k, v := range card.Config {
				clone.Config[k] = v
			}
		}
		clones = append(clones, clone)
	}
	return clones
}
