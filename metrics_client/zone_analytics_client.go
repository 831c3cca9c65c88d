package metrics_client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"zonedash-service/service/models"
)

var ZoneAnalyticsUrl = "http://mh1:38080"
var client = &http.Client{
	Timeout: 30 * time.Second,
}

func init() {
	if envUrl := os.Getenv("ZONE_ANALYTICS_URL"); envUrl != "" {
		ZoneAnalyticsUrl = envUrl
	}
}

// SetZoneAnalyticsUrl 设置指标提供方的 URL（用于测试）
func SetZoneAnalyticsUrl(url string) {
	ZoneAnalyticsUrl = url
}

// GetZoneAnalyticsUrl 获取当前指标提供方的 URL
func GetZoneAnalyticsUrl() string {
	return ZoneAnalyticsUrl
}

// QueryCardSummary 查询单张卡片的汇总指标
func QueryCardSummary(ctx context.Context, cardType models.CardType, zoneID string, since time.Duration) (result *CardMetric, err error) {
	if !cardType.IsValid() {
		return nil, fmt.Errorf("不支持的卡片类型: %s", cardType)
	}
	if zoneID == "" {
		return nil, errors.New("zone id cannot be empty")
	}
	if since <= 0 {
		since = 24 * time.Hour
	}

	values := url.Values{}
	values.Add("card_type", string(cardType))
	values.Add("zone_id", zoneID)
	values.Add("since", strconv.FormatInt(int64(since.Seconds()), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ZoneAnalyticsUrl+"/api/v1/summary", nil)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.URL.RawQuery = values.Encode()

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	var metricResp CardMetricResp
	if err = json.NewDecoder(resp.Body).Decode(&metricResp); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	if metricResp.Status != "success" {
		return nil, fmt.Errorf("查询失败: %s", metricResp.Status)
	}

	return &metricResp.Data, nil
}

// QueryCardTimeseries 查询单张卡片的时间序列指标
func QueryCardTimeseries(ctx context.Context, cardType models.CardType, zoneID string, start, end time.Time, step time.Duration) (result *CardMetric, err error) {
	if !cardType.IsValid() {
		return nil, fmt.Errorf("不支持的卡片类型: %s", cardType)
	}
	if zoneID == "" {
		return nil, errors.New("zone id cannot be empty")
	}
	if start.IsZero() || end.IsZero() {
		return nil, errors.New("start and end time cannot be zero")
	}
	if start.After(end) {
		return nil, errors.New("start time must be before end time")
	}
	if step <= 0 {
		step = 5 * time.Minute // 默认步长5分钟
	}

	values := url.Values{}
	values.Add("card_type", string(cardType))
	values.Add("zone_id", zoneID)
	values.Add("start", strconv.FormatInt(start.Unix(), 10))
	values.Add("end", strconv.FormatInt(end.Unix(), 10))
	values.Add("step", strconv.FormatInt(int64(step.Seconds()), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ZoneAnalyticsUrl+"/api/v1/timeseries", nil)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.URL.RawQuery = values.Encode()

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	var metricResp CardMetricResp
	if err = json.NewDecoder(resp.Body).Decode(&metricResp); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	if metricResp.Status != "success" {
		return nil, fmt.Errorf("查询失败: %s", metricResp.Status)
	}

	return &metricResp.Data, nil
}
