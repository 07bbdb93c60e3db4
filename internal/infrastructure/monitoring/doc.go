// Package monitoring collects Prometheus metrics for the desktop server:
// HTTP latency and sizes per route, provider tool call durations, window
// lifecycle counters, dock animation activity (frames, pointer events,
// settle time), session saves/restores and WebSocket connections.
//
// Everything registers on the default registry, so serving promhttp on
// /metrics exposes the lot:
//
//	metrics := monitoring.NewMetrics()
//	router.Use(monitoring.Middleware(metrics))
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// Tool calls are timed with a Timer:
//
//	timer := monitoring.NewTimer(metrics, "finder", "finder.list")
//	defer timer.Stop("success")
package monitoring
