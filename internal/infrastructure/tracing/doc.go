// Package tracing tags every HTTP request with a trace id and logs its
// outcome (status, duration, error) through zap.
//
// Ids arrive on the X-Trace-ID header and are echoed back on the
// response, so a frontend can correlate its network log with the server
// log. Requests without an incoming id get a fresh req_* id.
//
//	tracer := tracing.New("mymac", logger)
//	router.Use(tracing.HTTPMiddleware(tracer))
//
// Handlers can read the id from the request context via FromContext.
package tracing
