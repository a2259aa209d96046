package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry 独立注册表，避免与默认注册表中的第三方指标混杂
var Registry = prometheus.NewRegistry()

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bingo",
		Name:      "http_requests_total",
		Help:      "HTTP 请求总数",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bingo",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP 请求耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	workflowEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bingo",
		Name:      "workflow_events_total",
		Help:      "工作流操作结果计数（action × outcome）",
	}, []string{"action", "outcome"})

	sweptObjects = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bingo",
		Name:      "orphan_proofs_deleted_total",
		Help:      "清理任务删除的孤儿凭证数",
	})
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, workflowEvents, sweptObjects)
}

// Handler /metrics 暴露端点
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP 记录一次 HTTP 请求；route 使用路由模板避免基数爆炸
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordWorkflow 记录业务事件，outcome 取错误分类或 "ok"
func RecordWorkflow(action, outcome string) {
	workflowEvents.WithLabelValues(action, outcome).Inc()
}

// AddSwept 累加清理数量
func AddSwept(n int) {
	sweptObjects.Add(float64(n))
}
