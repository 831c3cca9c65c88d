package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"zonedash-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*Context, *memoryStore) {
	manager, store := newTestManager()
	dashContext, err := NewContext(context.Background(), manager)
	require.NoError(t, err)
	return dashContext, store
}

func TestContextInitialLoad(t *testing.T) {
	dashContext, _ := newTestContext(t)

	config := dashContext.Config()
	require.NotNil(t, config)
	assert.Equal(t, DefaultLayoutID, config.ActiveLayoutID)
	assert.False(t, dashContext.EditMode())
}

func TestContextConfigReturnsCopy(t *testing.T) {
	dashContext, _ := newTestContext(t)

	config := dashContext.Config()
	config.ActiveLayoutID = "tampered"
	config.Layouts[0].Name = "tampered"

	// 外部修改副本不影响内部状态
	fresh := dashContext.Config()
	assert.Equal(t, DefaultLayoutID, fresh.ActiveLayoutID)
	assert.NotEqual(t, "tampered", fresh.Layouts[0].Name)
}

func TestContextCommitsOnSuccess(t *testing.T) {
	dashContext, _ := newTestContext(t)
	ctx := context.Background()

	layout, err := dashContext.CreateLayout(ctx, "测试布局", "")
	require.NoError(t, err)

	config := dashContext.Config()
	assert.Len(t, config.Layouts, 2)
	assert.NotNil(t, config.FindLayout(layout.ID))

	status := dashContext.Status()
	assert.False(t, status.Loading)
	assert.Equal(t, models.ChangeActionCreateLayout, status.LastAction)
	assert.Empty(t, status.LastError)
}

func TestContextRollsBackOnStorageFailure(t *testing.T) {
	dashContext, store := newTestContext(t)
	ctx := context.Background()

	before := dashContext.Config()

	store.failSave = true
	_, err := dashContext.CreateLayout(ctx, "不会生效", "")
	require.Error(t, err)

	// 状态保持为上一份已知良好配置
	after := dashContext.Config()
	assert.Equal(t, len(before.Layouts), len(after.Layouts))
	assert.Equal(t, before.ActiveLayoutID, after.ActiveLayoutID)

	status := dashContext.Status()
	assert.NotEmpty(t, status.LastError)
	assert.True(t, status.Retryable)

	// 存储恢复后同一操作成功
	store.failSave = false
	_, err = dashContext.CreateLayout(ctx, "重试成功", "")
	require.NoError(t, err)
	assert.Len(t, dashContext.Config().Layouts, 2)
}

func TestContextInvalidOperationNotRetryable(t *testing.T) {
	dashContext, _ := newTestContext(t)

	err := dashContext.DeleteLayout(context.Background(), DefaultLayoutID)
	require.Error(t, err)

	status := dashContext.Status()
	assert.NotEmpty(t, status.LastError)
	assert.False(t, status.Retryable)
}

func TestContextEditMode(t *testing.T) {
	dashContext, store := newTestContext(t)

	persistedBefore := string(store.data)

	dashContext.SetEditMode(true)
	assert.True(t, dashContext.EditMode())
	dashContext.SetEditMode(false)
	assert.False(t, dashContext.EditMode())

	// 编辑模式不触发持久化
	assert.Equal(t, persistedBefore, string(store.data))
}

func TestContextEmitsChangeEvents(t *testing.T) {
	dashContext, _ := newTestContext(t)

	var mu sync.Mutex
	var received []*models.ConfigChangeEvent
	dashContext.AddChangeListener(func(event *models.ConfigChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
	})

	require.NoError(t, dashContext.SwitchLayout(context.Background(), DefaultLayoutID))

	// 监听器异步触发
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, models.ChangeActionSwitchLayout, received[0].Action)
	assert.Equal(t, DefaultLayoutID, received[0].LayoutID)
}

func TestContextNoEventOnFailure(t *testing.T) {
	dashContext, store := newTestContext(t)

	var mu sync.Mutex
	count := 0
	dashContext.AddChangeListener(func(event *models.ConfigChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})

	store.failSave = true
	_ = dashContext.SwitchLayout(context.Background(), DefaultLayoutID)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, count)
}

func TestContextRefreshReplacesState(t *testing.T) {
	dashContext, store := newTestContext(t)
	ctx := context.Background()

	// 模拟外部写入方整体覆盖存储
	external := buildFiveCardConfig()
	manager := NewConfigManager(store)
	require.NoError(t, manager.SaveConfig(ctx, external))

	require.NoError(t, dashContext.RefreshConfig(ctx))

	config := dashContext.Config()
	assert.Equal(t, "main", config.ActiveLayoutID)
	assert.Len(t, config.Layouts, 1)
	assert.Len(t, config.Layouts[0].Cards, 5)
}
