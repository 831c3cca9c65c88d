package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"zonedash-service/service/models"
	"zonedash-service/service/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore 内存配置存储，用于隔离测试
type memoryStore struct {
	data     []byte
	failSave bool
	failLoad bool
}

func (s *memoryStore) Load(ctx context.Context) ([]byte, error) {
	if s.failLoad {
		return nil, errors.New("load failed")
	}
	if s.data == nil {
		return nil, storage.ErrConfigNotFound
	}
	return s.data, nil
}

func (s *memoryStore) Save(ctx context.Context, doc []byte) error {
	if s.failSave {
		return errors.New("save failed")
	}
	s.data = doc
	return nil
}

func (s *memoryStore) Delete(ctx context.Context) error {
	s.data = nil
	return nil
}

func newTestManager() (*ConfigManager, *memoryStore) {
	store := &memoryStore{}
	return NewConfigManager(store), store
}

// buildFiveCardConfig 构建单布局五卡片的配置，卡片ID为A~E，顺序0~4
func buildFiveCardConfig() *models.DashboardConfig {
	now := time.Now()
	cardTypes := []models.CardType{
		models.CardTypeTotalRequests,
		models.CardTypeDataTransfer,
		models.CardTypeBandwidth,
		models.CardTypeCacheHitRate,
		models.CardTypeFirewallEvents,
	}
	ids := []string{"A", "B", "C", "D", "E"}

	layout := models.DashboardLayout{
		ID:        "main",
		Name:      "主布局",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, id := range ids {
		layout.Cards = append(layout.Cards, models.MetricCard{
			ID:       id,
			CardType: cardTypes[i],
			Visible:  true,
			Order:    i,
			Size:     models.CardSizeMedium,
		})
	}

	return &models.DashboardConfig{
		SchemaVersion:  models.CurrentSchemaVersion,
		Layouts:        []models.DashboardLayout{layout},
		ActiveLayoutID: "main",
	}
}

func TestLoadConfigCreatesDefaultWhenEmpty(t *testing.T) {
	manager, store := newTestManager()

	config, err := manager.LoadConfig(context.Background())
	require.NoError(t, err)
	require.NotNil(t, config)

	// 默认配置已持久化
	assert.NotNil(t, store.data)
	assert.Equal(t, models.CurrentSchemaVersion, config.SchemaVersion)
	assert.Equal(t, DefaultLayoutID, config.ActiveLayoutID)
	require.Len(t, config.Layouts, 1)
	assert.Len(t, config.Layouts[0].Cards, len(models.AllCardTypes))
	assert.Greater(t, config.Layouts[0].VisibleCount(), 0)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	original := buildFiveCardConfig()
	require.NoError(t, manager.SaveConfig(ctx, original))

	loaded, err := manager.LoadConfig(ctx)
	require.NoError(t, err)

	assert.Equal(t, original.SchemaVersion, loaded.SchemaVersion)
	assert.Equal(t, original.ActiveLayoutID, loaded.ActiveLayoutID)
	require.Len(t, loaded.Layouts, 1)
	require.Len(t, loaded.Layouts[0].Cards, 5)
	for i, card := range loaded.Layouts[0].Cards {
		assert.Equal(t, original.Layouts[0].Cards[i].ID, card.ID)
		assert.Equal(t, original.Layouts[0].Cards[i].Order, card.Order)
		assert.Equal(t, original.Layouts[0].Cards[i].Visible, card.Visible)
		assert.Equal(t, original.Layouts[0].Cards[i].CardType, card.CardType)
	}
}

func TestLoadConfigRecoversFromCorruptDocument(t *testing.T) {
	manager, store := newTestManager()
	store.data = []byte("{not valid json")

	config, err := manager.LoadConfig(context.Background())
	require.NoError(t, err)

	// 损坏文档被默认配置覆盖
	assert.Equal(t, DefaultLayoutID, config.ActiveLayoutID)
	var persisted models.DashboardConfig
	require.NoError(t, json.Unmarshal(store.data, &persisted))
	assert.Equal(t, DefaultLayoutID, persisted.ActiveLayoutID)
}

func TestLoadConfigMigratesOldVersion(t *testing.T) {
	manager, store := newTestManager()

	// 版本1文档：卡片用type字段，无size
	store.data = []byte(`{
		"schema_version": 1,
		"active_layout_id": "main",
		"layouts": [{
			"id": "main",
			"name": "主布局",
			"cards": [
				{"id": "A", "type": "cache_hit_rate", "visible": true, "order": 0}
			]
		}]
	}`)

	config, err := manager.LoadConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.CurrentSchemaVersion, config.SchemaVersion)
	require.Len(t, config.Layouts[0].Cards, 1)
	assert.Equal(t, models.CardTypeCacheHitRate, config.Layouts[0].Cards[0].CardType)
	assert.Equal(t, models.CardSizeMedium, config.Layouts[0].Cards[0].Size)

	// 迁移结果已写回存储
	var persisted map[string]interface{}
	require.NoError(t, json.Unmarshal(store.data, &persisted))
	assert.EqualValues(t, models.CurrentSchemaVersion, persisted["schema_version"])
}

func TestCreateLayout(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()
	config := buildFiveCardConfig()

	next, layout, err := manager.CreateLayout(ctx, config, "新布局", "")
	require.NoError(t, err)
	require.NotNil(t, layout)

	assert.Len(t, next.Layouts, 2)
	assert.Equal(t, "新布局", layout.Name)
	assert.Len(t, layout.Cards, len(models.AllCardTypes))
	// 原配置不受影响
	assert.Len(t, config.Layouts, 1)
	// 活动布局不变
	assert.Equal(t, "main", next.ActiveLayoutID)
}

func TestCreateLayoutFromBase(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()
	config := buildFiveCardConfig()

	next, layout, err := manager.CreateLayout(ctx, config, "克隆布局", "main")
	require.NoError(t, err)

	require.Len(t, layout.Cards, 5)
	for i, card := range layout.Cards {
		source := config.Layouts[0].Cards[i]
		// 卡片获得新ID，但保留顺序、可见性和类型
		assert.NotEqual(t, source.ID, card.ID)
		assert.Equal(t, source.Order, card.Order)
		assert.Equal(t, source.Visible, card.Visible)
		assert.Equal(t, source.CardType, card.CardType)
	}
	assert.Len(t, next.Layouts, 2)
}

func TestCreateLayoutRejectsEmptyName(t *testing.T) {
	manager, _ := newTestManager()

	_, _, err := manager.CreateLayout(context.Background(), buildFiveCardConfig(), "", "")
	require.Error(t, err)
	assert.Equal(t, ErrKindInvalidOperation, KindOf(err))
}

func TestCreateLayoutRejectsMissingBase(t *testing.T) {
	manager, _ := newTestManager()

	_, _, err := manager.CreateLayout(context.Background(), buildFiveCardConfig(), "新布局", "missing")
	require.Error(t, err)
	assert.Equal(t, ErrKindNotFound, KindOf(err))
}

func TestDeleteLastLayoutRejected(t *testing.T) {
	manager, _ := newTestManager()

	_, err := manager.DeleteLayout(context.Background(), buildFiveCardConfig(), "main")
	require.Error(t, err)
	assert.Equal(t, ErrKindInvalidOperation, KindOf(err))
}

func TestDeleteMissingLayoutReturnsNotFound(t *testing.T) {
	manager, _ := newTestManager()

	// 布局不存在时返回未找到，而不是最后布局拒绝
	_, err := manager.DeleteLayout(context.Background(), buildFiveCardConfig(), "missing")
	require.Error(t, err)
	assert.Equal(t, ErrKindNotFound, KindOf(err))
}

func TestDeleteActiveLayoutReassignsActive(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()
	config := buildFiveCardConfig()

	next, second, err := manager.CreateLayout(ctx, config, "第二布局", "")
	require.NoError(t, err)

	// 删除活动布局后，活动指针指向剩余的第一个布局
	afterDelete, err := manager.DeleteLayout(ctx, next, "main")
	require.NoError(t, err)

	require.Len(t, afterDelete.Layouts, 1)
	assert.Equal(t, second.ID, afterDelete.ActiveLayoutID)
	assert.Nil(t, afterDelete.FindLayout("main"))
}

func TestRenameLayout(t *testing.T) {
	manager, _ := newTestManager()

	next, err := manager.RenameLayout(context.Background(), buildFiveCardConfig(), "main", "改名后")
	require.NoError(t, err)
	assert.Equal(t, "改名后", next.FindLayout("main").Name)
}

func TestDuplicateLayoutDefaultName(t *testing.T) {
	manager, _ := newTestManager()
	config := buildFiveCardConfig()

	next, copyLayout, err := manager.DuplicateLayout(context.Background(), config, "main", "")
	require.NoError(t, err)

	assert.Equal(t, "主布局 (副本)", copyLayout.Name)
	assert.Len(t, next.Layouts, 2)
	require.Len(t, copyLayout.Cards, 5)
	for i, card := range copyLayout.Cards {
		source := config.Layouts[0].Cards[i]
		assert.NotEqual(t, source.ID, card.ID)
		assert.Equal(t, source.Order, card.Order)
		assert.Equal(t, source.Visible, card.Visible)
	}
}

func TestUpdateCardOrderScenario(t *testing.T) {
	manager, _ := newTestManager()
	config := buildFiveCardConfig()

	// 顺序[A,B,C,D,E]重排为[C,A,E,B,D]
	next, err := manager.UpdateCardOrder(context.Background(), config, "main", []string{"C", "A", "E", "B", "D"})
	require.NoError(t, err)

	layout := next.FindLayout("main")
	require.Len(t, layout.Cards, 5)

	expected := []string{"C", "A", "E", "B", "D"}
	for i, card := range layout.Cards {
		assert.Equal(t, expected[i], card.ID)
		assert.Equal(t, i, card.Order)
	}
	// 原配置保持旧顺序
	assert.Equal(t, "A", config.Layouts[0].Cards[0].ID)
}

func TestUpdateCardOrderRejectsNonPermutation(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	tests := []struct {
		name  string
		order []string
	}{
		{"数量不足", []string{"A", "B", "C"}},
		{"包含重复", []string{"A", "A", "B", "C", "D"}},
		{"包含未知卡片", []string{"A", "B", "C", "D", "X"}},
		{"空序列", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.UpdateCardOrder(ctx, buildFiveCardConfig(), "main", tt.order)
			require.Error(t, err)
			assert.Equal(t, ErrKindInvalidOperation, KindOf(err))
		})
	}
}

func TestToggleCardVisibility(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()
	config := buildFiveCardConfig()

	next, err := manager.ToggleCardVisibility(ctx, config, "main", "B")
	require.NoError(t, err)
	assert.False(t, next.FindLayout("main").FindCard("B").Visible)

	// 再次切换恢复可见
	again, err := manager.ToggleCardVisibility(ctx, next, "main", "B")
	require.NoError(t, err)
	assert.True(t, again.FindLayout("main").FindCard("B").Visible)
}

func TestHideLastVisibleCardRejected(t *testing.T) {
	manager, _ := newTestManager()
	config := buildFiveCardConfig()

	// 只留A可见
	for i := range config.Layouts[0].Cards {
		config.Layouts[0].Cards[i].Visible = config.Layouts[0].Cards[i].ID == "A"
	}

	_, err := manager.ToggleCardVisibility(context.Background(), config, "main", "A")
	require.Error(t, err)
	assert.Equal(t, ErrKindInvalidOperation, KindOf(err))
}

func TestSwitchLayout(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	next, second, err := manager.CreateLayout(ctx, buildFiveCardConfig(), "第二布局", "")
	require.NoError(t, err)

	switched, err := manager.SwitchLayout(ctx, next, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, switched.ActiveLayoutID)

	_, err = manager.SwitchLayout(ctx, switched, "missing")
	require.Error(t, err)
	assert.Equal(t, ErrKindNotFound, KindOf(err))
}

func TestResetToDefault(t *testing.T) {
	manager, store := newTestManager()
	ctx := context.Background()

	require.NoError(t, manager.SaveConfig(ctx, buildFiveCardConfig()))

	config, err := manager.ResetToDefault(ctx)
	require.NoError(t, err)

	assert.Equal(t, DefaultLayoutID, config.ActiveLayoutID)
	var persisted models.DashboardConfig
	require.NoError(t, json.Unmarshal(store.data, &persisted))
	assert.Equal(t, DefaultLayoutID, persisted.ActiveLayoutID)
}

func TestMutationNotPersistedOnStorageFailure(t *testing.T) {
	manager, store := newTestManager()
	ctx := context.Background()
	config := buildFiveCardConfig()

	store.failSave = true
	_, err := manager.RenameLayout(ctx, config, "main", "新名字")
	require.Error(t, err)
	assert.Equal(t, ErrKindStorageFailure, KindOf(err))

	// 调用方持有的配置不受影响
	assert.Equal(t, "主布局", config.Layouts[0].Name)
}

func TestValidateConfigInvariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.DashboardConfig)
	}{
		{"布局列表为空", func(c *models.DashboardConfig) { c.Layouts = nil }},
		{"活动布局不存在", func(c *models.DashboardConfig) { c.ActiveLayoutID = "missing" }},
		{"卡片ID重复", func(c *models.DashboardConfig) {
			c.Layouts[0].Cards[1].ID = "A"
		}},
		{"顺序不连续", func(c *models.DashboardConfig) {
			c.Layouts[0].Cards[0].Order = 9
		}},
		{"顺序重复", func(c *models.DashboardConfig) {
			c.Layouts[0].Cards[1].Order = 0
		}},
		{"无可见卡片", func(c *models.DashboardConfig) {
			for i := range c.Layouts[0].Cards {
				c.Layouts[0].Cards[i].Visible = false
			}
		}},
		{"卡片类型非法", func(c *models.DashboardConfig) {
			c.Layouts[0].Cards[0].CardType = "bogus"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := buildFiveCardConfig()
			tt.mutate(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Equal(t, ErrKindValidation, KindOf(err))
		})
	}

	assert.NoError(t, validateConfig(buildFiveCardConfig()))
}
