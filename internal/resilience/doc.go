// Package resilience groups the fault containment helpers used around
// outbound calls: circuit breakers for listing pages, feeds, article pages and
// LLM backends, and an opt-in retry loop with exponential backoff.
//
//	cb := circuitbreaker.New(circuitbreaker.FeedConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return parseFeed(ctx, url)
//	})
//
//	err := retry.WithBackoff(ctx, retry.AnalysisConfig(3), func() error {
//	    return callModel(ctx)
//	})
package resilience
