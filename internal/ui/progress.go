package ui

import (
	"sync"
	"time"
)

// ProgressTracker holds the state the sync TUI reads: active stage,
// page counts, throughput, and a smoothed ETA. Safe for concurrent use.
type ProgressTracker struct {
	mu         sync.RWMutex
	stage      Stage
	current    int
	total      int
	message    string
	startTime  time.Time
	stageStart time.Time
	errors     []ErrorEvent
	warnings   []ErrorEvent

	// lastETA carries the previous estimate for exponential smoothing.
	lastETA time.Duration

	// Throughput tracking in pages per second.
	lastCurrent   int
	lastSpeedCalc time.Time
	currentSpeed  float64
	avgSpeed      float64
	peakSpeed     float64
	speedSamples  int
	sparkline     *Sparkline
}

// SpeedStats are throughput metrics for display.
type SpeedStats struct {
	Current float64
	Avg     float64
	Peak    float64
}

// ProgressStats is a snapshot of tracker state.
type ProgressStats struct {
	Stage      Stage
	Current    int
	Total      int
	Progress   float64
	ETA        time.Duration
	Message    string
	ErrorCount int
	WarnCount  int
	Speed      SpeedStats
}

// NewProgressTracker creates a tracker starting at the contacts stage.
func NewProgressTracker() *ProgressTracker {
	now := time.Now()
	return &ProgressTracker{
		stage:         StageContacts,
		startTime:     now,
		stageStart:    now,
		lastSpeedCalc: now,
		sparkline:     NewSparkline(60),
	}
}

// SetStage transitions to a new stage and resets per-stage state.
func (p *ProgressTracker) SetStage(stage Stage, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stage = stage
	p.total = total
	p.current = 0
	p.message = ""
	p.stageStart = time.Now()
	p.lastETA = 0

	p.lastCurrent = 0
	p.lastSpeedCalc = time.Now()
	p.currentSpeed = 0
	p.avgSpeed = 0
	p.peakSpeed = 0
	p.speedSamples = 0
	p.sparkline.Clear()
}

// Update records progress within the current stage.
func (p *ProgressTracker) Update(current int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	if message != "" {
		p.message = message
	}

	// Sample throughput no more than every 500ms to avoid noise.
	now := time.Now()
	elapsed := now.Sub(p.lastSpeedCalc)
	if elapsed < 500*time.Millisecond {
		return
	}
	delta := current - p.lastCurrent
	if delta > 0 {
		speed := float64(delta) / elapsed.Seconds()
		p.currentSpeed = speed

		p.speedSamples++
		if p.speedSamples == 1 {
			p.avgSpeed = speed
		} else {
			p.avgSpeed = 0.2*speed + 0.8*p.avgSpeed
		}
		if speed > p.peakSpeed {
			p.peakSpeed = speed
		}
		p.sparkline.Add(speed)
	}
	p.lastCurrent = current
	p.lastSpeedCalc = now
}

// AddError records an error or warning.
func (p *ProgressTracker) AddError(event ErrorEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if event.IsWarn {
		p.warnings = append(p.warnings, event)
	} else {
		p.errors = append(p.errors, event)
	}
}

// Progress returns completion of the current stage in 0.0 to 1.0.
func (p *ProgressTracker) Progress() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.total == 0 {
		return 0.0
	}
	return min(float64(p.current)/float64(p.total), 1.0)
}

// Elapsed returns time since the tracker was created.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return time.Since(p.startTime)
}

// Stats returns a snapshot. Takes the write lock because the ETA
// smoothing state advances on every read.
func (p *ProgressTracker) Stats() ProgressStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	progress := 0.0
	if p.total > 0 {
		progress = min(float64(p.current)/float64(p.total), 1.0)
	}

	return ProgressStats{
		Stage:      p.stage,
		Current:    p.current,
		Total:      p.total,
		Progress:   progress,
		ETA:        p.calculateETA(),
		Message:    p.message,
		ErrorCount: len(p.errors),
		WarnCount:  len(p.warnings),
		Speed: SpeedStats{
			Current: p.currentSpeed,
			Avg:     p.avgSpeed,
			Peak:    p.peakSpeed,
		},
	}
}

// etaSmoothingFactor weights new estimates against the previous one.
const etaSmoothingFactor = 0.3

// calculateETA estimates remaining time with exponential smoothing so
// page-to-page variance does not make the display jump. Callers hold
// the lock.
func (p *ProgressTracker) calculateETA() time.Duration {
	if p.current == 0 || p.total == 0 {
		return 0
	}

	elapsed := time.Since(p.stageStart)
	progress := float64(p.current) / float64(p.total)
	if progress <= 0 || progress >= 1.0 {
		return 0
	}

	remaining := time.Duration(float64(elapsed)/progress) - elapsed
	if remaining < 0 {
		return 0
	}

	if p.lastETA == 0 {
		p.lastETA = remaining
		return remaining
	}
	smoothed := time.Duration(
		etaSmoothingFactor*float64(remaining) + (1-etaSmoothingFactor)*float64(p.lastETA),
	)
	p.lastETA = smoothed
	return smoothed
}

// Errors returns a copy of the recorded errors.
func (p *ProgressTracker) Errors() []ErrorEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]ErrorEvent, len(p.errors))
	copy(out, p.errors)
	return out
}

// Warnings returns a copy of the recorded warnings.
func (p *ProgressTracker) Warnings() []ErrorEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]ErrorEvent, len(p.warnings))
	copy(out, p.warnings)
	return out
}

// RenderSparkline draws the throughput sparkline at the given width.
func (p *ProgressTracker) RenderSparkline(width int) string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.sparkline == nil {
		return ""
	}
	return p.sparkline.Render(width)
}

// SpeedStats returns the current throughput metrics.
func (p *ProgressTracker) SpeedStats() SpeedStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return SpeedStats{
		Current: p.currentSpeed,
		Avg:     p.avgSpeed,
		Peak:    p.peakSpeed,
	}
}
