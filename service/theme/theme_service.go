/*
 * @module service/theme/theme_service
 * @description 主题服务，提供浅色和深色两套内置配色方案
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 服务启动时装载内置主题 -> 按模式查询
 * @rules 主题为只读内置数据，不支持运行时修改
 * @dependencies zonedash-service/service/models
 * @refs api/controllers/theme_controller.go
 */

package theme

import (
	"fmt"

	"zonedash-service/service/models"
)

// ThemeService 主题服务
type ThemeService struct {
	palettes map[string]*models.ThemePalette
}

// NewThemeService 创建主题服务实例并装载内置主题
func NewThemeService() *ThemeService {
	light := &models.ThemePalette{
		Name: "浅色主题",
		Mode: models.ThemeModeLight,
		Colors: map[string]string{
			"background":     "#F5F6FA",
			"surface":        "#FFFFFF",
			"card":           "#FFFFFF",
			"text_primary":   "#1A1D26",
			"text_secondary": "#6B7280",
			"accent":         "#F6821F",
			"success":        "#10B981",
			"warning":        "#F59E0B",
			"danger":         "#EF4444",
		},
		Charts: []string{"#F6821F", "#3B82F6", "#10B981", "#8B5CF6", "#F59E0B", "#EC4899"},
	}

	dark := &models.ThemePalette{
		Name: "深色主题",
		Mode: models.ThemeModeDark,
		Colors: map[string]string{
			"background":     "#0F1117",
			"surface":        "#1A1D26",
			"card":           "#222631",
			"text_primary":   "#F3F4F6",
			"text_secondary": "#9CA3AF",
			"accent":         "#F6821F",
			"success":        "#34D399",
			"warning":        "#FBBF24",
			"danger":         "#F87171",
		},
		Charts: []string{"#F6821F", "#60A5FA", "#34D399", "#A78BFA", "#FBBF24", "#F472B6"},
	}

	return &ThemeService{
		palettes: map[string]*models.ThemePalette{
			models.ThemeModeLight: light,
			models.ThemeModeDark:  dark,
		},
	}
}

// GetPalettes 获取全部主题配色
func (s *ThemeService) GetPalettes() []*models.ThemePalette {
	return []*models.ThemePalette{
		s.palettes[models.ThemeModeLight],
		s.palettes[models.ThemeModeDark],
	}
}

// GetPalette 按模式获取主题配色
func (s *ThemeService) GetPalette(mode string) (*models.ThemePalette, error) {
	palette, ok := s.palettes[mode]
	if !ok {
		return nil, fmt.Errorf("主题模式 %s 不存在", mode)
	}
	return palette, nil
}
