/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs dev_docs/model.md
 */

package api

import (
	"zonedash-service/api/controllers"
	authmw "zonedash-service/api/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 设备令牌鉴权
	r.Use(authmw.NewDeviceAuthMiddleware().Middleware)

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// SSE事件订阅
	eventController := controllers.NewEventController()
	r.Get("/sse", eventController.HandleSSE)
	r.Get("/events/clients", eventController.GetClientCount)

	// 看板配置管理
	r.Route("/dashboard", func(r chi.Router) {
		dashboardController := controllers.NewDashboardController()

		// 当前配置与状态
		r.Get("/config", dashboardController.GetConfig)

		// 布局管理
		r.Route("/layouts", func(r chi.Router) {
			r.Post("/", dashboardController.CreateLayout)
			r.Delete("/{id}", dashboardController.DeleteLayout)
			r.Put("/{id}/name", dashboardController.RenameLayout)
			r.Post("/{id}/duplicate", dashboardController.DuplicateLayout)
			r.Post("/{id}/activate", dashboardController.ActivateLayout)

			// 卡片管理
			r.Put("/{id}/card-order", dashboardController.UpdateCardOrder)
			r.Post("/{id}/cards/{cardId}/toggle-visibility", dashboardController.ToggleCardVisibility)
		})

		// 全局操作
		r.Post("/reset", dashboardController.ResetToDefault)
		r.Post("/edit-mode", dashboardController.SetEditMode)
		r.Post("/refresh", dashboardController.RefreshConfig)
	})

	// 区域指标查询
	r.Route("/metrics-data", func(r chi.Router) {
		metricsController := controllers.NewMetricsController()
		r.Get("/card-types", metricsController.GetCardTypes)
		r.Get("/cards/{cardType}/summary", metricsController.GetCardSummary)
		r.Get("/cards/{cardType}/timeseries", metricsController.GetCardTimeseries)
	})

	// 主题配色
	r.Route("/themes", func(r chi.Router) {
		themeController := controllers.NewThemeController()
		r.Get("/", themeController.GetPalettes)
		r.Get("/{mode}", themeController.GetPalette)
	})

	// 配置快照
	r.Route("/snapshots", func(r chi.Router) {
		snapshotController := controllers.NewSnapshotController()
		r.Get("/", snapshotController.ListSnapshots)
		r.Post("/", snapshotController.CreateSnapshot)
		r.Get("/{id}", snapshotController.GetSnapshot)
		r.Post("/{id}/restore", snapshotController.RestoreSnapshot)
	})
}
