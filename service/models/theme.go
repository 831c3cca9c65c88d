/*
 * @module service/models/theme
 * @description 主题配色模型，提供移动端明暗两套配色令牌
 * @architecture 数据模型层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 固定枚举 -> 客户端按模式选取
 * @rules 配色令牌只读，核心状态与主题取值无关
 * @dependencies 无
 * @refs service/theme/theme_service.go
 */

package models

// 主题模式
const (
	ThemeModeLight = "light"
	ThemeModeDark  = "dark"
)

// ThemePalette 主题配色方案
type ThemePalette struct {
	Name   string            `json:"name"`
	Mode   string            `json:"mode"`
	Colors map[string]string `json:"colors"`
	Charts []string          `json:"charts"`
}
