package metrics_client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zonedash-service/service/models"
)

func TestQueryCardSummary(t *testing.T) {
	// 创建测试服务器
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/summary" {
			t.Errorf("期望路径 /api/v1/summary, 实际 %s", r.URL.Path)
		}

		cardType := r.URL.Query().Get("card_type")
		if cardType == "" {
			t.Error("card_type 参数不能为空")
		}

		resp := CardMetricResp{
			Status: "success",
			Data: CardMetric{
				CardType: cardType,
				ZoneID:   r.URL.Query().Get("zone_id"),
				Totals:   map[string]float64{"requests": 12345},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	// 设置测试URL
	SetZoneAnalyticsUrl(server.URL)

	tests := []struct {
		name     string
		cardType models.CardType
		zoneID   string
		since    time.Duration
		wantErr  bool
	}{
		{
			name:     "正常查询",
			cardType: models.CardTypeTotalRequests,
			zoneID:   "zone-abc",
			since:    time.Hour,
			wantErr:  false,
		},
		{
			name:     "非法卡片类型",
			cardType: models.CardType("unknown_card"),
			zoneID:   "zone-abc",
			since:    time.Hour,
			wantErr:  true,
		},
		{
			name:     "空zone id",
			cardType: models.CardTypeCacheHitRate,
			zoneID:   "",
			since:    time.Hour,
			wantErr:  true,
		},
		{
			name:     "零时长使用默认窗口",
			cardType: models.CardTypeFirewallEvents,
			zoneID:   "zone-abc",
			since:    0,
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := QueryCardSummary(context.Background(), tt.cardType, tt.zoneID, tt.since)
			if (err != nil) != tt.wantErr {
				t.Errorf("QueryCardSummary() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && result == nil {
				t.Error("期望返回结果, 实际为 nil")
			}
		})
	}
}

func TestQueryCardTimeseries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/timeseries" {
			t.Errorf("期望路径 /api/v1/timeseries, 实际 %s", r.URL.Path)
		}

		resp := CardMetricResp{
			Status: "success",
			Data: CardMetric{
				CardType: r.URL.Query().Get("card_type"),
				ZoneID:   r.URL.Query().Get("zone_id"),
				Series: []SeriesPoint{
					{Timestamp: time.Now().Unix(), Values: map[string]float64{"requests": 100}},
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	SetZoneAnalyticsUrl(server.URL)

	now := time.Now()

	tests := []struct {
		name     string
		cardType models.CardType
		zoneID   string
		start    time.Time
		end      time.Time
		step     time.Duration
		wantErr  bool
	}{
		{
			name:     "正常区间查询",
			cardType: models.CardTypeBandwidth,
			zoneID:   "zone-abc",
			start:    now.Add(-time.Hour),
			end:      now,
			step:     time.Minute,
			wantErr:  false,
		},
		{
			name:     "开始时间晚于结束时间",
			cardType: models.CardTypeBandwidth,
			zoneID:   "zone-abc",
			start:    now,
			end:      now.Add(-time.Hour),
			step:     time.Minute,
			wantErr:  true,
		},
		{
			name:     "零时间",
			cardType: models.CardTypeBandwidth,
			zoneID:   "zone-abc",
			start:    time.Time{},
			end:      now,
			step:     time.Minute,
			wantErr:  true,
		},
		{
			name:     "零步长使用默认步长",
			cardType: models.CardTypeStatusCodes,
			zoneID:   "zone-abc",
			start:    now.Add(-time.Hour),
			end:      now,
			step:     0,
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := QueryCardTimeseries(context.Background(), tt.cardType, tt.zoneID, tt.start, tt.end, tt.step)
			if (err != nil) != tt.wantErr {
				t.Errorf("QueryCardTimeseries() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && result == nil {
				t.Error("期望返回结果, 实际为 nil")
			}
		})
	}
}
