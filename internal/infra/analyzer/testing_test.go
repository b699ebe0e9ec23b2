package analyzer

import (
	"sync"
	"time"
)

// fakeMetrics records calls in memory.
type fakeMetrics struct {
	mu          sync.Mutex
	durations   []string
	truncations []string
}

func (f *fakeMetrics) RecordDuration(provider string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.durations = append(f.durations, provider)
}

func (f *fakeMetrics) RecordTruncation(provider string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.truncations = append(f.truncations, provider)
}

// fastRetries shortens backoff so retry tests stay quick.
func fastRetries(r *runner) {
	r.retryConfig.InitialDelay = time.Millisecond
	r.retryConfig.MaxDelay = 5 * time.Millisecond
	r.retryConfig.JitterFraction = 0
}
