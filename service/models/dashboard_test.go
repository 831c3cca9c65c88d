package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() *DashboardConfig {
	now := time.Now()
	return &DashboardConfig{
		SchemaVersion: CurrentSchemaVersion,
		Layouts: []DashboardLayout{
			{
				ID:   "main",
				Name: "主布局",
				Cards: []MetricCard{
					{ID: "A", CardType: CardTypeTotalRequests, Visible: true, Order: 0, Config: JSONB{"unit": "req"}},
					{ID: "B", CardType: CardTypeBandwidth, Visible: false, Order: 1},
				},
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		ActiveLayoutID: "main",
	}
}

func TestCardTypeIsValid(t *testing.T) {
	for _, cardType := range AllCardTypes {
		assert.True(t, cardType.IsValid(), "卡片类型 %s 应当合法", cardType)
	}
	assert.False(t, CardType("bogus").IsValid())
	assert.False(t, CardType("").IsValid())
}

func TestFindLayoutAndCard(t *testing.T) {
	config := sampleConfig()

	layout := config.FindLayout("main")
	require.NotNil(t, layout)
	assert.Equal(t, "主布局", layout.Name)
	assert.Nil(t, config.FindLayout("missing"))

	card := layout.FindCard("A")
	require.NotNil(t, card)
	assert.Equal(t, CardTypeTotalRequests, card.CardType)
	assert.Nil(t, layout.FindCard("missing"))

	// FindCard返回的指针可以原地修改
	card.Visible = false
	assert.False(t, config.Layouts[0].Cards[0].Visible)
}

func TestVisibleCount(t *testing.T) {
	config := sampleConfig()
	assert.Equal(t, 1, config.Layouts[0].VisibleCount())

	config.Layouts[0].Cards[1].Visible = true
	assert.Equal(t, 2, config.Layouts[0].VisibleCount())
}

func TestCloneIsDeepCopy(t *testing.T) {
	config := sampleConfig()
	clone := config.Clone()
	require.NotNil(t, clone)

	clone.ActiveLayoutID = "other"
	clone.Layouts[0].Name = "改名"
	clone.Layouts[0].Cards[0].Visible = false
	clone.Layouts[0].Cards[0].Config["unit"] = "bytes"

	assert.Equal(t, "main", config.ActiveLayoutID)
	assert.Equal(t, "主布局", config.Layouts[0].Name)
	assert.True(t, config.Layouts[0].Cards[0].Visible)
	assert.Equal(t, "req", config.Layouts[0].Cards[0].Config["unit"])
}

func TestNewConfigChangeEvent(t *testing.T) {
	event := NewConfigChangeEvent(ChangeActionDeleteLayout, "main", "")
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, ChangeActionDeleteLayout, event.Action)
	assert.Equal(t, "main", event.LayoutID)
	assert.Empty(t, event.CardID)
	assert.WithinDuration(t, time.Now(), event.OccurredAt, time.Second)
}
