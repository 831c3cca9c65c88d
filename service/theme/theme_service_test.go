package theme

import (
	"testing"

	"zonedash-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPalettes(t *testing.T) {
	service := NewThemeService()

	palettes := service.GetPalettes()
	require.Len(t, palettes, 2)
	assert.Equal(t, models.ThemeModeLight, palettes[0].Mode)
	assert.Equal(t, models.ThemeModeDark, palettes[1].Mode)
}

func TestGetPalette(t *testing.T) {
	service := NewThemeService()

	// 两套主题提供相同的色值键
	light, err := service.GetPalette(models.ThemeModeLight)
	require.NoError(t, err)
	dark, err := service.GetPalette(models.ThemeModeDark)
	require.NoError(t, err)

	require.NotEmpty(t, light.Colors)
	assert.Len(t, dark.Colors, len(light.Colors))
	for key := range light.Colors {
		assert.Contains(t, dark.Colors, key)
	}
	assert.NotEmpty(t, light.Charts)
	assert.Len(t, dark.Charts, len(light.Charts))
}

func TestGetPaletteUnknownMode(t *testing.T) {
	service := NewThemeService()

	_, err := service.GetPalette("sepia")
	require.Error(t, err)
}
