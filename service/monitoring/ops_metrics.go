/*
 * @module service/monitoring/ops_metrics
 * @description 配置操作Prometheus指标采集
 * @architecture 监控层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 配置动作执行 -> 计数与耗时记录 -> /metrics暴露
 * @rules 指标记录不影响业务流程，失败动作按错误结果计数
 * @dependencies github.com/prometheus/client_golang
 * @refs service/dashboard/context.go
 */

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	configOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zonedash_config_operations_total",
			Help: "看板配置操作总数，按动作和结果分类",
		},
		[]string{"action", "result"},
	)

	configPersistDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zonedash_config_persist_duration_seconds",
			Help:    "配置操作含持久化的耗时分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	sseClientsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "zonedash_sse_clients_connected",
			Help: "当前已连接的SSE客户端数量",
		},
	)
)

// RecordConfigOperation 记录一次配置操作
func RecordConfigOperation(action string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	configOperationsTotal.WithLabelValues(action, result).Inc()
	configPersistDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// SSEClientConnected 记录SSE客户端接入
func SSEClientConnected() {
	sseClientsConnected.Inc()
}

// SSEClientDisconnected 记录SSE客户端断开
func SSEClientDisconnected() {
	sseClientsConnected.Dec()
}
