// Package resilience implements a circuit breaker for outbound calls.
//
// The breaker guards the icon asset upstream and page fetches: while
// closed, requests flow and failures are counted; once ReadyToTrip fires
// the breaker opens and rejects with ErrCircuitOpen; after Timeout it
// half-opens and admits up to MaxRequests probes, closing again when they
// all succeed.
//
//	breaker := resilience.New("asset-fetch", resilience.Settings{
//		Timeout: 30 * time.Second,
//		ReadyToTrip: func(c resilience.Counts) bool {
//			return c.ConsecutiveFailures >= 5
//		},
//	})
//	result, err := breaker.Execute(func() (interface{}, error) {
//		return client.Get(url)
//	})
package resilience
