/*
 * @module api/controllers/theme_controller
 * @description 主题控制器，提供内置主题配色查询
 * @architecture RESTful API架构 - 控制器层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow HTTP请求 -> 主题服务查询 -> 响应返回
 * @rules 主题为只读内置数据
 * @dependencies zonedash-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/theme/theme_service.go
 */

package controllers

import (
	"net/http"

	"zonedash-service/service"
	"zonedash-service/service/theme"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ThemeController 主题控制器
type ThemeController struct {
	themeService *theme.ThemeService
}

// NewThemeController 创建主题控制器实例
func NewThemeController() *ThemeController {
	return &ThemeController{
		themeService: service.GlobalThemeService,
	}
}

// GetPalettes 获取全部主题配色
// @Summary 获取全部主题配色
// @Description 返回浅色和深色两套内置配色方案
// @Tags 主题
// @Produce json
// @Success 200 {object} APIResponse
// @Router /themes [get]
func (c *ThemeController) GetPalettes(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, SuccessResponse("获取主题配色成功", c.themeService.GetPalettes()))
}

// GetPalette 按模式获取主题配色
// @Summary 按模式获取主题配色
// @Description 按light或dark模式返回对应的配色方案
// @Tags 主题
// @Produce json
// @Param mode path string true "主题模式" Enums(light, dark)
// @Success 200 {object} APIResponse
// @Router /themes/{mode} [get]
func (c *ThemeController) GetPalette(w http.ResponseWriter, r *http.Request) {
	mode := chi.URLParam(r, "mode")

	palette, err := c.themeService.GetPalette(mode)
	if err != nil {
		render.Render(w, r, ErrorResponse(http.StatusNotFound, "获取主题配色失败", err))
		return
	}

	render.Render(w, r, SuccessResponse("获取主题配色成功", palette))
}
