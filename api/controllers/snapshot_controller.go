/*
 * @module api/controllers/snapshot_controller
 * @description 配置快照控制器，提供快照创建、查询和恢复API
 * @architecture RESTful API架构 - 控制器层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow HTTP请求 -> 快照服务 -> 恢复后刷新状态上下文
 * @rules 恢复快照整体覆盖当前配置并立即刷新内存状态
 * @dependencies zonedash-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/snapshot/snapshot_service.go
 */

package controllers

import (
	"net/http"
	"strconv"

	"zonedash-service/service"
	"zonedash-service/service/models"
	"zonedash-service/service/snapshot"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// SnapshotController 配置快照控制器
type SnapshotController struct {
	snapshotService *snapshot.SnapshotService
}

// NewSnapshotController 创建配置快照控制器实例
func NewSnapshotController() *SnapshotController {
	return &SnapshotController{
		snapshotService: service.GlobalSnapshotService,
	}
}

// ListSnapshots 获取快照列表
// @Summary 获取快照列表
// @Description 按创建时间倒序返回配置快照列表
// @Tags 配置快照
// @Produce json
// @Param limit query int false "返回数量" default(20)
// @Success 200 {object} APIResponse
// @Router /snapshots [get]
func (c *SnapshotController) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	snapshots, err := c.snapshotService.ListSnapshots(r.Context(), limit)
	if err != nil {
		render.Render(w, r, ErrorResponse(http.StatusInternalServerError, "获取快照列表失败", err))
		return
	}

	render.Render(w, r, SuccessResponse("获取快照列表成功", snapshots))
}

// GetSnapshot 获取快照详情
// @Summary 获取快照详情
// @Description 按ID返回快照的完整配置文档
// @Tags 配置快照
// @Produce json
// @Param id path string true "快照ID"
// @Success 200 {object} APIResponse
// @Router /snapshots/{id} [get]
func (c *SnapshotController) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := c.snapshotService.GetSnapshot(r.Context(), id)
	if err != nil {
		render.Render(w, r, ErrorResponse(http.StatusNotFound, "获取快照失败", err))
		return
	}

	render.Render(w, r, SuccessResponse("获取快照成功", snap))
}

// CreateSnapshot 手动创建快照
// @Summary 手动创建快照
// @Description 立即对当前配置创建一份快照
// @Tags 配置快照
// @Produce json
// @Success 200 {object} APIResponse
// @Router /snapshots [post]
func (c *SnapshotController) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := c.snapshotService.TakeSnapshot(r.Context(), models.SnapshotReasonManual)
	if err != nil {
		render.Render(w, r, ErrorResponse(http.StatusInternalServerError, "创建快照失败", err))
		return
	}

	render.Render(w, r, SuccessResponse("创建快照成功", snap))
}

// RestoreSnapshot 恢复快照
// @Summary 恢复快照
// @Description 将指定快照的配置文档写回存储并刷新内存状态
// @Tags 配置快照
// @Produce json
// @Param id path string true "快照ID"
// @Success 200 {object} APIResponse
// @Router /snapshots/{id}/restore [post]
func (c *SnapshotController) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.snapshotService.RestoreSnapshot(r.Context(), id); err != nil {
		render.Render(w, r, ErrorResponse(http.StatusInternalServerError, "恢复快照失败", err))
		return
	}

	if err := service.GlobalDashboardContext.RefreshConfig(r.Context()); err != nil {
		render.Render(w, r, ErrorResponse(http.StatusInternalServerError, "恢复后刷新配置失败", err))
		return
	}

	render.Render(w, r, SuccessResponse("恢复快照成功", service.GlobalDashboardContext.Config()))
}
