package metrics_client

// CardMetricResp 指标提供方响应包装
type CardMetricResp struct {
	Status string     `json:"status"`
	Data   CardMetric `json:"data"`
}

// CardMetric 单张卡片的指标数据
type CardMetric struct {
	CardType string                 `json:"card_type"`
	ZoneID   string                 `json:"zone_id"`
	Totals   map[string]float64     `json:"totals,omitempty"`
	Series   []SeriesPoint          `json:"series,omitempty"`
	Extra    map[string]interface{} `json:"extra,omitempty"`
}

// SeriesPoint 时间序列数据点
type SeriesPoint struct {
	Timestamp int64              `json:"timestamp"`
	Values    map[string]float64 `json:"values"`
}
