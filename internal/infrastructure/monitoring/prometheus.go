package monitoring

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// PrometheusHandler returns an http.Handler that serves Prometheus text format metrics.
// Mount it at "/metrics".
func (m *Monitor) PrometheusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(m.metrics.StartTime).Seconds()

		lines := []struct {
			name string
			help string
			typ  string
			val  any
		}{
			// HTTP
			{"agenthub_http_requests_total", "Total number of HTTP requests served", "counter", atomic.LoadUint64(&m.metrics.RequestsTotal)},
			{"agenthub_http_requests_client_error_total", "HTTP requests answered with a 4xx status", "counter", atomic.LoadUint64(&m.metrics.RequestsClientError)},
			{"agenthub_http_requests_server_error_total", "HTTP requests answered with a 5xx status", "counter", atomic.LoadUint64(&m.metrics.RequestsServerError)},

			// Model calls
			{"agenthub_model_calls_total", "Total chat completion calls", "counter", atomic.LoadUint64(&m.metrics.ModelCallsTotal)},
			{"agenthub_model_calls_failed_total", "Chat completion calls that returned an error", "counter", atomic.LoadUint64(&m.metrics.ModelCallsFailed)},
			{"agenthub_model_tokens_used_total", "Total tokens reported by the completion endpoints", "counter", atomic.LoadUint64(&m.metrics.ModelTokensUsed)},

			{"agenthub_uptime_seconds", "Process uptime in seconds", "gauge", uptime},

			// Runtime
			{"agenthub_memory_alloc_bytes", "Current memory allocation in bytes", "gauge", memStats.Alloc},
			{"agenthub_memory_sys_bytes", "Total memory obtained from OS", "gauge", memStats.Sys},
			{"agenthub_goroutines", "Number of goroutines", "gauge", runtime.NumGoroutine()},
			{"agenthub_gc_cycles_total", "Total number of completed GC cycles", "counter", memStats.NumGC},
		}

		for _, l := range lines {
			fmt.Fprintf(w, "# HELP %s %s\n", l.name, l.help)
			fmt.Fprintf(w, "# TYPE %s %s\n", l.name, l.typ)
			switch v := l.val.(type) {
			case uint64:
				fmt.Fprintf(w, "%s %d\n", l.name, v)
			case int:
				fmt.Fprintf(w, "%s %d\n", l.name, v)
			case uint32:
				fmt.Fprintf(w, "%s %d\n", l.name, v)
			case float64:
				fmt.Fprintf(w, "%s %f\n", l.name, v)
			}
			fmt.Fprintln(w)
		}

		// Latency summaries
		if atomic.LoadUint64(&m.metrics.RequestLatencyCount) > 0 {
			fmt.Fprintf(w, "# HELP agenthub_http_request_latency_avg_ms Average request latency in milliseconds\n")
			fmt.Fprintf(w, "# TYPE agenthub_http_request_latency_avg_ms gauge\n")
			fmt.Fprintf(w, "agenthub_http_request_latency_avg_ms %f\n\n", avgMs(&m.metrics.RequestLatencySum, &m.metrics.RequestLatencyCount))
		}
		if atomic.LoadUint64(&m.metrics.ModelLatencyCount) > 0 {
			fmt.Fprintf(w, "# HELP agenthub_model_latency_avg_ms Average completion latency in milliseconds\n")
			fmt.Fprintf(w, "# TYPE agenthub_model_latency_avg_ms gauge\n")
			fmt.Fprintf(w, "agenthub_model_latency_avg_ms %f\n\n", avgMs(&m.metrics.ModelLatencySum, &m.metrics.ModelLatencyCount))
		}
	})
}
