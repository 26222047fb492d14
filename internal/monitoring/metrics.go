package monitoring

import (
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

type Metrics struct {
	RequestCount   int64
	ErrorCount     int64
	ActiveRequests int64
	StatusCodes    map[string]int64
	Endpoints      map[string]int64
}

type MemoryUsage struct {
	Alloc      uint64 `json:"alloc_mb"`
	TotalAlloc uint64 `json:"total_alloc_mb"`
	Sys        uint64 `json:"sys_mb"`
	NumGC      uint32 `json:"num_gc"`
}

type SystemMetrics struct {
	Uptime         time.Duration `json:"uptime_ns"`
	GoroutineCount int           `json:"goroutine_count"`
	CPUCount       int           `json:"cpu_count"`
	GoVersion      string        `json:"go_version"`
	MemoryUsage    MemoryUsage   `json:"memory"`
}

type metricsCollector struct {
	mu      sync.Mutex
	metrics Metrics
}

var collector = newCollector()

func newCollector() *metricsCollector {
	return &metricsCollector{
		metrics: Metrics{
			StatusCodes: make(map[string]int64),
			Endpoints:   make(map[string]int64),
		},
	}
}

func resetGlobalMetrics() {
	collector.mu.Lock()
	defer collector.mu.Unlock()
	collector.metrics = Metrics{
		StatusCodes: make(map[string]int64),
		Endpoints:   make(map[string]int64),
	}
}

// MetricsMiddleware counts requests, per-endpoint hits and status classes.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		collector.mu.Lock()
		collector.metrics.ActiveRequests++
		collector.mu.Unlock()

		c.Next()

		status := c.Writer.Status()

		collector.mu.Lock()
		collector.metrics.ActiveRequests--
		collector.metrics.RequestCount++
		collector.metrics.StatusCodes[http.StatusText(status)]++
		collector.metrics.Endpoints[c.Request.Method+" "+c.FullPath()]++
		if status >= http.StatusInternalServerError {
			collector.metrics.ErrorCount++
		}
		collector.mu.Unlock()
	}
}

// GetMetrics returns a snapshot; the maps are copies, safe to read.
func GetMetrics() Metrics {
	collector.mu.Lock()
	defer collector.mu.Unlock()

	snapshot := Metrics{
		RequestCount:   collector.metrics.RequestCount,
		ErrorCount:     collector.metrics.ErrorCount,
		ActiveRequests: collector.metrics.ActiveRequests,
		StatusCodes:    make(map[string]int64, len(collector.metrics.StatusCodes)),
		Endpoints:      make(map[string]int64, len(collector.metrics.Endpoints)),
	}
	for k, v := range collector.metrics.StatusCodes {
		snapshot.StatusCodes[k] = v
	}
	for k, v := range collector.metrics.Endpoints {
		snapshot.Endpoints[k] = v
	}
	return snapshot
}

func GetSystemMetrics() SystemMetrics {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return SystemMetrics{
		Uptime:         time.Since(startTime),
		GoroutineCount: runtime.NumGoroutine(),
		CPUCount:       runtime.NumCPU(),
		GoVersion:      runtime.Version(),
		MemoryUsage: MemoryUsage{
			Alloc:      bToMb(memStats.Alloc),
			TotalAlloc: bToMb(memStats.TotalAlloc),
			Sys:        bToMb(memStats.Sys),
			NumGC:      memStats.NumGC,
		},
	}
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

func MetricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requests := GetMetrics()
		c.JSON(http.StatusOK, gin.H{
			"requests": gin.H{
				"total":        requests.RequestCount,
				"errors":       requests.ErrorCount,
				"active":       requests.ActiveRequests,
				"status_codes": requests.StatusCodes,
				"endpoints":    requests.Endpoints,
			},
			"system": GetSystemMetrics(),
		})
	}
}
