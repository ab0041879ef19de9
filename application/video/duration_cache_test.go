package video

import (
	"context"
	"testing"
)

// countingProber implements video.DurationProber for testing
type countingProber struct {
	durations map[string]float64
	calls     map[string]int
}

func (p *countingProber) Duration(ctx context.Context, path string) (float64, bool) {
	p.calls[path]++
	d, ok := p.durations[path]
	return d, ok
}

func TestDurationCache(t *testing.T) {
	prober := &countingProber{
		durations: map[string]float64{"a.mp4": 61.25},
		calls:     map[string]int{},
	}
	cache := NewDurationCache(prober)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, ok := cache.Duration(ctx, "a.mp4")
		if !ok || d != 61.25 {
			t.Fatalf("Duration(a.mp4) = %v, %v", d, ok)
		}
		if _, ok := cache.Duration(ctx, "unknown.mp4"); ok {
			t.Fatal("Duration(unknown.mp4) should be unknown")
		}
	}

	if prober.calls["a.mp4"] != 1 {
		t.Errorf("a.mp4 probed %d times, want 1", prober.calls["a.mp4"])
	}
	if prober.calls["unknown.mp4"] != 1 {
		t.Errorf("unknown results should be cached, probed %d times", prober.calls["unknown.mp4"])
	}

	prober.durations["a.mp4"] = 90
	cache.Invalidate("a.mp4")

	if d, _ := cache.Duration(ctx, "a.mp4"); d != 90 {
		t.Errorf("Duration after Invalidate = %v, want 90", d)
	}
	if prober.calls["a.mp4"] != 2 {
		t.Errorf("a.mp4 probed %d times after Invalidate, want 2", prober.calls["a.mp4"])
	}
}
