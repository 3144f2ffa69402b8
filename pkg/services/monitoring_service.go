package services

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLog は単一のリクエストログを表します。
type RequestLog struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"statusCode"`
	ResponseTime time.Duration `json:"responseTime"`
}

// MonitoringService はAPIのモニタリング機能を提供します。
type MonitoringService struct {
	logs []RequestLog
	mu   sync.RWMutex
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{logs: make([]RequestLog, 0)}
}

// LogRequest はリクエストを記録します。
func (s *MonitoringService) LogRequest(entry RequestLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// モニタリング自身とヘルスチェックは除外
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/monitoring") || path == "/health" {
			return
		}

		s.LogRequest(RequestLog{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
		})
	}
}

// LogSummary はログの集計結果です。
type LogSummary struct {
	Total        int              `json:"total"`
	Endpoints    map[string]int   `json:"endpoints"`
	StatusCounts map[string]int   `json:"statusCounts"`
	RecentErrors []RequestLog     `json:"recentErrors"`
	AvgMillis    map[string]int64 `json:"avgResponseMillis"`
}

// Summary は指定された期間のログを集計して返します。
func (s *MonitoringService) Summary(period time.Duration) LogSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := time.Now().Add(-period)
	summary := LogSummary{
		Endpoints:    make(map[string]int),
		StatusCounts: map[string]int{"2xx": 0, "4xx": 0, "5xx": 0},
		RecentErrors: make([]RequestLog, 0),
		AvgMillis:    make(map[string]int64),
	}

	totalTime := make(map[string]time.Duration)
	for _, entry := range s.logs {
		if entry.Timestamp.Before(since) {
			continue
		}
		summary.Total++
		summary.Endpoints[entry.Path]++
		totalTime[entry.Path] += entry.ResponseTime
		switch {
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			summary.StatusCounts["2xx"]++
		case entry.StatusCode >= 400 && entry.StatusCode < 500:
			summary.StatusCounts["4xx"]++
		case entry.StatusCode >= 500:
			summary.StatusCounts["5xx"]++
		}
	}

	for path, total := range totalTime {
		if n := summary.Endpoints[path]; n > 0 {
			summary.AvgMillis[path] = total.Milliseconds() / int64(n)
		}
	}

	// 直近のサーバーエラーを新しい順に最大10件
	for i := len(s.logs) - 1; i >= 0 && len(summary.RecentErrors) < 10; i-- {
		if s.logs[i].StatusCode >= 500 && !s.logs[i].Timestamp.Before(since) {
			summary.RecentErrors = append(summary.RecentErrors, s.logs[i])
		}
	}

	return summary
}
