/*
 * @module api/controllers/metrics_controller
 * @description 区域指标控制器，按卡片类型查询指标提供方的汇总和时间序列数据
 * @architecture RESTful API架构 - 控制器层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow HTTP请求 -> 指标提供方查询 -> 响应返回
 * @rules 指标数据为透传，加载和错误状态直接反映给调用方
 * @dependencies zonedash-service/metrics_client, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs metrics_client/zone_analytics_client.go
 */

package controllers

import (
	"net/http"
	"time"

	"zonedash-service/metrics_client"
	"zonedash-service/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// MetricsController 区域指标控制器
type MetricsController struct{}

// NewMetricsController 创建区域指标控制器实例
func NewMetricsController() *MetricsController {
	return &MetricsController{}
}

// GetCardSummary 查询卡片汇总指标
// @Summary 查询卡片汇总指标
// @Description 按卡片类型查询指定区域的汇总指标
// @Tags 区域指标
// @Produce json
// @Param cardType path string true "卡片类型"
// @Param zone_id query string true "区域ID"
// @Param since query int false "时间窗口（秒）" default(86400)
// @Success 200 {object} APIResponse
// @Router /metrics-data/cards/{cardType}/summary [get]
func (c *MetricsController) GetCardSummary(w http.ResponseWriter, r *http.Request) {
	cardType := models.CardType(chi.URLParam(r, "cardType"))
	zoneID := r.URL.Query().Get("zone_id")
	since := time.Duration(cast.ToInt64(r.URL.Query().Get("since"))) * time.Second

	result, err := metrics_client.QueryCardSummary(r.Context(), cardType, zoneID, since)
	if err != nil {
		render.Render(w, r, ErrorResponse(http.StatusBadGateway, "查询汇总指标失败", err))
		return
	}

	render.Render(w, r, SuccessResponse("查询汇总指标成功", result))
}

// GetCardTimeseries 查询卡片时间序列指标
// @Summary 查询卡片时间序列指标
// @Description 按卡片类型查询指定区域和时间范围的时间序列指标
// @Tags 区域指标
// @Produce json
// @Param cardType path string true "卡片类型"
// @Param zone_id query string true "区域ID"
// @Param start query int true "开始时间（Unix秒）"
// @Param end query int true "结束时间（Unix秒）"
// @Param step query int false "步长（秒）" default(300)
// @Success 200 {object} APIResponse
// @Router /metrics-data/cards/{cardType}/timeseries [get]
func (c *MetricsController) GetCardTimeseries(w http.ResponseWriter, r *http.Request) {
	cardType := models.CardType(chi.URLParam(r, "cardType"))
	zoneID := r.URL.Query().Get("zone_id")

	start := time.Unix(cast.ToInt64(r.URL.Query().Get("start")), 0)
	end := time.Unix(cast.ToInt64(r.URL.Query().Get("end")), 0)
	if cast.ToInt64(r.URL.Query().Get("start")) == 0 {
		start = time.Time{}
	}
	if cast.ToInt64(r.URL.Query().Get("end")) == 0 {
		end = time.Time{}
	}
	step := time.Duration(cast.ToInt64(r.URL.Query().Get("step"))) * time.Second

	result, err := metrics_client.QueryCardTimeseries(r.Context(), cardType, zoneID, start, end, step)
	if err != nil {
		render.Render(w, r, ErrorResponse(http.StatusBadGateway, "查询时间序列指标失败", err))
		return
	}

	render.Render(w, r, SuccessResponse("查询时间序列指标成功", result))
}

// GetCardTypes 获取支持的卡片类型
// @Summary 获取支持的卡片类型
// @Description 列出全部支持的指标卡片类型
// @Tags 区域指标
// @Produce json
// @Success 200 {object} APIResponse
// @Router /metrics-data/card-types [get]
func (c *MetricsController) GetCardTypes(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, SuccessResponse("获取卡片类型成功", models.AllCardTypes))
}
