/*
 * @module api/controllers/dashboard_controller
 * @description 看板配置控制器，暴露布局和卡片的全部配置操作
 * @architecture RESTful API架构 - 控制器层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow HTTP请求 -> 状态上下文串行变更 -> 响应返回
 * @rules 错误类别映射HTTP状态：未找到404、非法操作400、存储失败500
 * @dependencies zonedash-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/dashboard/context.go
 */

package controllers

import (
	"log/slog"
	"net/http"

	"zonedash-service/service"
	"zonedash-service/service/dashboard"
	"zonedash-service/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// DashboardController 看板配置控制器
type DashboardController struct {
	dashContext *dashboard.Context
}

// NewDashboardController 创建看板配置控制器实例
func NewDashboardController() *DashboardController {
	return &DashboardController{
		dashContext: service.GlobalDashboardContext,
	}
}

// renderConfigError 将配置错误映射为HTTP响应
func renderConfigError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := http.StatusInternalServerError
	switch dashboard.KindOf(err) {
	case dashboard.ErrKindNotFound:
		status = http.StatusNotFound
	case dashboard.ErrKindInvalidOperation:
		status = http.StatusBadRequest
	}
	render.Render(w, r, ErrorResponse(status, msg, err))
}

// GetConfig 获取当前看板配置
// @Summary 获取看板配置
// @Description 获取当前完整的看板配置，包括全部布局和活动布局标识
// @Tags 看板配置
// @Produce json
// @Success 200 {object} APIResponse
// @Router /dashboard/config [get]
func (c *DashboardController) GetConfig(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, SuccessResponse("获取看板配置成功", map[string]interface{}{
		"config":    c.dashContext.Config(),
		"edit_mode": c.dashContext.EditMode(),
		"status":    c.dashContext.Status(),
	}))
}

// CreateLayoutRequest 新建布局请求
type CreateLayoutRequest struct {
	Name         string `json:"name" example:"我的布局"`
	BaseLayoutID string `json:"base_layout_id,omitempty" example:"default"`
}

// CreateLayout 新建布局
// @Summary 新建布局
// @Description 新建布局，可选择从已有布局复制卡片设置
// @Tags 看板配置
// @Accept json
// @Produce json
// @Param request body CreateLayoutRequest true "新建布局请求"
// @Success 200 {object} APIResponse
// @Router /dashboard/layouts [post]
func (c *DashboardController) CreateLayout(w http.ResponseWriter, r *http.Request) {
	var req CreateLayoutRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, ErrorResponse(http.StatusBadRequest, "请求参数解析失败", err))
		return
	}

	layout, err := c.dashContext.CreateLayout(r.Context(), req.Name, req.BaseLayoutID)
	if err != nil {
		renderConfigError(w, r, "新建布局失败", err)
		return
	}

	render.Render(w, r, SuccessResponse("新建布局成功", layout))
}

// DeleteLayout 删除布局
// @Summary 删除布局
// @Description 删除指定布局，最后一个布局不允许删除；删除活动布局时自动切换
// @Tags 看板配置
// @Produce json
// @Param id path string true "布局ID"
// @Success 200 {object} APIResponse
// @Router /dashboard/layouts/{id} [delete]
func (c *DashboardController) DeleteLayout(w http.ResponseWriter, r *http.Request) {
	layoutID := chi.URLParam(r, "id")

	if err := c.dashContext.DeleteLayout(r.Context(), layoutID); err != nil {
		renderConfigError(w, r, "删除布局失败", err)
		return
	}

	render.Render(w, r, SuccessResponse("删除布局成功", nil))
}

// RenameLayoutRequest 重命名布局请求
type RenameLayoutRequest struct {
	Name string `json:"name" example:"新名称"`
}

// RenameLayout 重命名布局
// @Summary 重命名布局
// @Description 修改指定布局的名称
// @Tags 看板配置
// @Accept json
// @Produce json
// @Param id path string true "布局ID"
// @Param request body RenameLayoutRequest true "重命名请求"
// @Success 200 {object} APIResponse
// @Router /dashboard/layouts/{id}/name [put]
func (c *DashboardController) RenameLayout(w http.ResponseWriter, r *http.Request) {
	layoutID := chi.URLParam(r, "id")

	var req RenameLayoutRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, ErrorResponse(http.StatusBadRequest, "请求参数解析失败", err))
		return
	}

	if err := c.dashContext.RenameLayout(r.Context(), layoutID, req.Name); err != nil {
		renderConfigError(w, r, "重命名布局失败", err)
		return
	}

	render.Render(w, r, SuccessResponse("重命名布局成功", nil))
}

// DuplicateLayoutRequest 复制布局请求
type DuplicateLayoutRequest struct {
	Name string `json:"name,omitempty" example:"我的布局 (副本)"`
}

// DuplicateLayout 复制布局
// @Summary 复制布局
// @Description 复制指定布局及其全部卡片设置，名称缺省时自动生成
// @Tags 看板配置
// @Accept json
// @Produce json
// @Param id path string true "布局ID"
// @Param request body DuplicateLayoutRequest false "复制请求"
// @Success 200 {object} APIResponse
// @Router /dashboard/layouts/{id}/duplicate [post]
func (c *DashboardController) DuplicateLayout(w http.ResponseWriter, r *http.Request) {
	layoutID := chi.URLParam(r, "id")

	var req DuplicateLayoutRequest
	if r.Body != nil {
		// 请求体可选
		render.DecodeJSON(r.Body, &req)
	}

	layout, err := c.dashContext.DuplicateLayout(r.Context(), layoutID, req.Name)
	if err != nil {
		renderConfigError(w, r, "复制布局失败", err)
		return
	}

	render.Render(w, r, SuccessResponse("复制布局成功", layout))
}

// UpdateCardOrderRequest 卡片排序请求
type UpdateCardOrderRequest struct {
	OrderedCardIDs []string `json:"ordered_card_ids"`
}

// UpdateCardOrder 更新卡片顺序
// @Summary 更新卡片顺序
// @Description 以完整卡片ID序列更新布局内卡片顺序，序列必须是现有卡片的排列
// @Tags 看板配置
// @Accept json
// @Produce json
// @Param id path string true "布局ID"
// @Param request body UpdateCardOrderRequest true "排序请求"
// @Success 200 {object} APIResponse
// @Router /dashboard/layouts/{id}/card-order [put]
func (c *DashboardController) UpdateCardOrder(w http.ResponseWriter, r *http.Request) {
	layoutID := chi.URLParam(r, "id")

	var req UpdateCardOrderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, ErrorResponse(http.StatusBadRequest, "请求参数解析失败", err))
		return
	}

	if err := c.dashContext.UpdateCardOrder(r.Context(), layoutID, req.OrderedCardIDs); err != nil {
		renderConfigError(w, r, "更新卡片顺序失败", err)
		return
	}

	render.Render(w, r, SuccessResponse("更新卡片顺序成功", nil))
}

// ToggleCardVisibility 切换卡片可见性
// @Summary 切换卡片可见性
// @Description 切换指定卡片的显示状态，布局内最后一张可见卡片不允许隐藏
// @Tags 看板配置
// @Produce json
// @Param id path string true "布局ID"
// @Param cardId path string true "卡片ID"
// @Success 200 {object} APIResponse
// @Router /dashboard/layouts/{id}/cards/{cardId}/toggle-visibility [post]
func (c *DashboardController) ToggleCardVisibility(w http.ResponseWriter, r *http.Request) {
	layoutID := chi.URLParam(r, "id")
	cardID := chi.URLParam(r, "cardId")

	if err := c.dashContext.ToggleCardVisibility(r.Context(), layoutID, cardID); err != nil {
		renderConfigError(w, r, "切换卡片可见性失败", err)
		return
	}

	render.Render(w, r, SuccessResponse("切换卡片可见性成功", nil))
}

// ActivateLayout 切换活动布局
// @Summary 切换活动布局
// @Description 将指定布局设置为活动布局
// @Tags 看板配置
// @Produce json
// @Param id path string true "布局ID"
// @Success 200 {object} APIResponse
// @Router /dashboard/layouts/{id}/activate [post]
func (c *DashboardController) ActivateLayout(w http.ResponseWriter, r *http.Request) {
	layoutID := chi.URLParam(r, "id")

	if err := c.dashContext.SwitchLayout(r.Context(), layoutID); err != nil {
		renderConfigError(w, r, "切换活动布局失败", err)
		return
	}

	render.Render(w, r, SuccessResponse("切换活动布局成功", nil))
}

// ResetToDefault 重置为默认配置
// @Summary 重置看板配置
// @Description 丢弃全部自定义布局并恢复默认配置
// @Tags 看板配置
// @Produce json
// @Success 200 {object} APIResponse
// @Router /dashboard/reset [post]
func (c *DashboardController) ResetToDefault(w http.ResponseWriter, r *http.Request) {
	// 重置前自动备份当前配置
	if service.GlobalSnapshotService != nil {
		if _, err := service.GlobalSnapshotService.TakeSnapshot(r.Context(), models.SnapshotReasonPreReset); err != nil {
			slog.Warn("重置前快照失败", "error", err)
		}
	}

	if err := c.dashContext.ResetToDefault(r.Context()); err != nil {
		renderConfigError(w, r, "重置看板配置失败", err)
		return
	}

	render.Render(w, r, SuccessResponse("重置看板配置成功", c.dashContext.Config()))
}

// EditModeRequest 编辑模式请求
type EditModeRequest struct {
	Enabled bool `json:"enabled" example:"true"`
}

// SetEditMode 设置编辑模式
// @Summary 设置编辑模式
// @Description 开启或关闭编辑模式，该状态仅保存在内存中
// @Tags 看板配置
// @Accept json
// @Produce json
// @Param request body EditModeRequest true "编辑模式请求"
// @Success 200 {object} APIResponse
// @Router /dashboard/edit-mode [post]
func (c *DashboardController) SetEditMode(w http.ResponseWriter, r *http.Request) {
	var req EditModeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, ErrorResponse(http.StatusBadRequest, "请求参数解析失败", err))
		return
	}

	c.dashContext.SetEditMode(req.Enabled)
	render.Render(w, r, SuccessResponse("设置编辑模式成功", map[string]interface{}{
		"edit_mode": c.dashContext.EditMode(),
	}))
}

// RefreshConfig 重新加载配置
// @Summary 重新加载配置
// @Description 从存储重新加载配置并整体替换内存状态
// @Tags 看板配置
// @Produce json
// @Success 200 {object} APIResponse
// @Router /dashboard/refresh [post]
func (c *DashboardController) RefreshConfig(w http.ResponseWriter, r *http.Request) {
	if err := c.dashContext.RefreshConfig(r.Context()); err != nil {
		renderConfigError(w, r, "重新加载配置失败", err)
		return
	}

	render.Render(w, r, SuccessResponse("重新加载配置成功", c.dashContext.Config()))
}
