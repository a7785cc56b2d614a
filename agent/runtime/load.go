package runtime

import "sync/atomic"

// LoadTracker exposes the business load signal the external worker runtime
// consumes: active calls over capacity, clamped to [0.0, 1.0].
type LoadTracker struct {
	maxConcurrent int64
	active        atomic.Int64
}

const defaultMaxConcurrentCalls = 5

func NewLoadTracker(maxConcurrent int) *LoadTracker {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentCalls
	}
	return &LoadTracker{maxConcurrent: int64(maxConcurrent)}
}

func (t *LoadTracker) CallStarted() {
	t.active.Add(1)
}

func (t *LoadTracker) CallEnded() {
	if t.active.Add(-1) < 0 {
		t.active.Store(0)
	}
}

func (t *LoadTracker) ActiveCalls() int {
	return int(t.active.Load())
}

func (t *LoadTracker) Load() float64 {
	load := float64(t.active.Load()) / float64(t.maxConcurrent)
	if load < 0 {
		return 0
	}
	if load > 1 {
		return 1
	}
	return load
}
