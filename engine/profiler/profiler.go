package profiler

import (
	"log"
	"runtime"
	"time"
)

// Sample is what a single tick did.
type Sample struct {
	Rigs     int
	Composed int
	Skipped  int
	Removed  int
	Signals  int
	Duration time.Duration
}

// Report aggregates the samples of one logging interval.
type Report struct {
	// TPS is the measured ticks per second.
	TPS float64

	Ticks int

	// Rigs, Composed and Skipped are per-tick averages.
	Rigs     float64
	Composed float64
	Skipped  float64

	// Removed and Signals are totals over the interval.
	Removed int
	Signals int

	AvgTick time.Duration
	MaxTick time.Duration

	HeapMB float64
	NumGC  uint32
}

// Profiler tracks tick rate, rig throughput and memory statistics for
// performance monitoring. Outputs stats to the log at a configurable interval.
type Profiler struct {
	tickCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats

	rigs, composed, skipped int
	removed, signals        int
	total, max              time.Duration

	last Report
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// SetInterval changes how often statistics are logged.
//
// Parameters:
//   - d: the logging interval
func (p *Profiler) SetInterval(d time.Duration) {
	p.updateInterval = d
}

// Tick should be called once per simulation tick with what the tick did.
// Logs performance statistics when the update interval has elapsed.
//
// Parameters:
//   - s: the tick's sample
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(s Sample) bool {
	p.tickCount++
	p.rigs += s.Rigs
	p.composed += s.Composed
	p.skipped += s.Skipped
	p.removed += s.Removed
	p.signals += s.Signals
	p.total += s.Duration
	p.max = max(p.max, s.Duration)

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	n := float64(p.tickCount)
	r := Report{
		Ticks:    p.tickCount,
		Rigs:     float64(p.rigs) / n,
		Composed: float64(p.composed) / n,
		Skipped:  float64(p.skipped) / n,
		Removed:  p.removed,
		Signals:  p.signals,
		AvgTick:  p.total / time.Duration(p.tickCount),
		MaxTick:  p.max,
		HeapMB:   float64(p.memStats.Alloc) / 1024 / 1024,
		NumGC:    p.memStats.NumGC,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		r.TPS = n / secs
	}

	log.Printf("[Profiler] TPS: %.2f | Rigs: %.1f | Composed: %.1f | Skipped: %.1f | Removed: %d | Signals: %d | Tick: avg %s max %s | Heap: %.2f MB | GC: %d",
		r.TPS, r.Rigs, r.Composed, r.Skipped, r.Removed, r.Signals, r.AvgTick, r.MaxTick, r.HeapMB, r.NumGC)

	p.last = r
	p.tickCount = 0
	p.rigs, p.composed, p.skipped = 0, 0, 0
	p.removed, p.signals = 0, 0
	p.total, p.max = 0, 0
	p.lastTime = currentTime
	return true
}

// Last returns the most recently logged report.
func (p *Profiler) Last() Report {
	return p.last
}
