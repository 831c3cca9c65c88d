/*
 * @module service/dashboard/context
 * @description 看板状态上下文，内存中配置状态的单一写入方，衔接UI动作与配置管理器
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 动作进入 -> 串行持久化 -> 成功则提交新状态 / 失败则保留上一份已知良好配置
 * @rules 互斥锁串行化全部变更；观察者只能看到已持久化的状态；每次成功变更广播事件
 * @dependencies zonedash-service/service/models, zonedash-service/service/monitoring
 * @refs service/dashboard/config_manager.go, service/event/event_service.go
 */

package dashboard

import (
	"context"
	"sync"
	"time"

	"zonedash-service/service/models"
	"zonedash-service/service/monitoring"
)

// ActionStatus 最近一次动作的状态
type ActionStatus struct {
	Loading    bool      `json:"loading"`
	LastAction string    `json:"last_action,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	Retryable  bool      `json:"retryable,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ChangeListener 配置变更事件监听器
type ChangeListener func(event *models.ConfigChangeEvent)

// Context 看板状态上下文
// 所有配置变更经由此结构串行执行，持久化完成前不向观察者暴露新状态
type Context struct {
	manager *ConfigManager

	mu        sync.RWMutex
	config    *models.DashboardConfig
	editMode  bool
	status    ActionStatus
	listeners []ChangeListener
}

// NewContext 创建状态上下文并完成初始加载
func NewContext(ctx context.Context, manager *ConfigManager) (*Context, error) {
	config, err := manager.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &Context{
		manager: manager,
		config:  config,
	}, nil
}

// AddChangeListener 注册配置变更监听器
func (c *Context) AddChangeListener(listener ChangeListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, listener)
}

// Config 获取当前配置的副本
func (c *Context) Config() *models.DashboardConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.Clone()
}

// EditMode 获取编辑模式标志
func (c *Context) EditMode() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.editMode
}

// Status 获取最近一次动作的状态
func (c *Context) Status() ActionStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// SetEditMode 设置编辑模式，纯内存状态不持久化
func (c *Context) SetEditMode(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editMode = enabled
}

// RefreshConfig 重新加载配置并整体替换内存状态
// 用于外部写入或应用恢复前台后同步
func (c *Context) RefreshConfig(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	config, err := c.manager.LoadConfig(ctx)
	if err != nil {
		c.finishAction(models.ChangeActionRefresh, err)
		return err
	}
	c.config = config
	c.finishAction(models.ChangeActionRefresh, nil)
	c.emitLocked(models.NewConfigChangeEvent(models.ChangeActionRefresh, "", ""))
	return nil
}

// SwitchLayout 切换活动布局
func (c *Context) SwitchLayout(ctx context.Context, layoutID string) error {
	return c.mutate(ctx, models.ChangeActionSwitchLayout, layoutID, "", func(current *models.DashboardConfig) (*models.DashboardConfig, error) {
		return c.manager.SwitchLayout(ctx, current, layoutID)
	})
}

// CreateLayout 新建布局
func (c *Context) CreateLayout(ctx context.Context, name, baseLayoutID string) (*models.DashboardLayout, error) {
	var created *models.DashboardLayout
	err := c.mutate(ctx, models.ChangeActionCreateLayout, "", "", func(current *models.DashboardConfig) (*models.DashboardConfig, error) {
		next, layout, err := c.manager.CreateLayout(ctx, current, name, baseLayoutID)
		if err != nil {
			return nil, err
		}
		created = layout
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteLayout 删除布局
func (c *Context) DeleteLayout(ctx context.Context, layoutID string) error {
	return c.mutate(ctx, models.ChangeActionDeleteLayout, layoutID, "", func(current *models.DashboardConfig) (*models.DashboardConfig, error) {
		return c.manager.DeleteLayout(ctx, current, layoutID)
	})
}

// RenameLayout 重命名布局
func (c *Context) RenameLayout(ctx context.Context, layoutID, newName string) error {
	return c.mutate(ctx, models.ChangeActionRenameLayout, layoutID, "", func(current *models.DashboardConfig) (*models.DashboardConfig, error) {
		return c.manager.RenameLayout(ctx, current, layoutID, newName)
	})
}

// DuplicateLayout 复制布局
func (c *Context) DuplicateLayout(ctx context.Context, layoutID, newName string) (*models.DashboardLayout, error) {
	var created *models.DashboardLayout
	err := c.mutate(ctx, models.ChangeActionDuplicateLayout, layoutID, "", func(current *models.DashboardConfig) (*models.DashboardConfig, error) {
		next, layout, err := c.manager.DuplicateLayout(ctx, current, layoutID, newName)
		if err != nil {
			return nil, err
		}
		created = layout
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateCardOrder 重排卡片顺序
func (c *Context) UpdateCardOrder(ctx context.Context, layoutID string, orderedCardIDs []string) error {
	return c.mutate(ctx, models.ChangeActionUpdateCardOrder, layoutID, "", func(current *models.DashboardConfig) (*models.DashboardConfig, error) {
		return c.manager.UpdateCardOrder(ctx, current, layoutID, orderedCardIDs)
	})
}

// ToggleCardVisibility 切换卡片可见性
func (c *Context) ToggleCardVisibility(ctx context.Context, layoutID, cardID string) error {
	return c.mutate(ctx, models.ChangeActionToggleCardVisibility, layoutID, cardID, func(current *models.DashboardConfig) (*models.DashboardConfig, error) {
		return c.manager.ToggleCardVisibility(ctx, current, layoutID, cardID)
	})
}

// ResetToDefault 重置为默认配置
func (c *Context) ResetToDefault(ctx context.Context) error {
	return c.mutate(ctx, models.ChangeActionResetToDefault, "", "", func(current *models.DashboardConfig) (*models.DashboardConfig, error) {
		return c.manager.ResetToDefault(ctx)
	})
}

// mutate 变更动作的统一骨架
// 在锁内执行：管理器在克隆上修改并持久化，成功才提交为当前状态；
// 失败时当前状态保持为上一份已知良好配置，存储类错误标记为可重试
func (c *Context) mutate(ctx context.Context, action, layoutID, cardID string, op func(current *models.DashboardConfig) (*models.DashboardConfig, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = ActionStatus{Loading: true, LastAction: action, UpdatedAt: time.Now()}

	start := time.Now()
	next, err := op(c.config)
	monitoring.RecordConfigOperation(action, err, time.Since(start))

	if err != nil {
		c.finishAction(action, err)
		return err
	}

	c.config = next
	c.finishAction(action, nil)
	c.emitLocked(models.NewConfigChangeEvent(action, layoutID, cardID))
	return nil
}

// finishAction 更新动作状态，调用方必须持有锁
func (c *Context) finishAction(action string, err error) {
	status := ActionStatus{LastAction: action, UpdatedAt: time.Now()}
	if err != nil {
		status.LastError = err.Error()
		status.Retryable = IsStorageFailure(err)
	}
	c.status = status
}

// emitLocked 异步广播变更事件，调用方必须持有锁
func (c *Context) emitLocked(event *models.ConfigChangeEvent) {
	for _, listener := range c.listeners {
		go listener(event)
	}
}
