package ui

import "strings"

// Sparkline keeps a ring buffer of throughput samples and renders
// them as a row of Unicode block characters, newest at the right.
type Sparkline struct {
	samples []float64
	head    int
	count   int
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// NewSparkline creates a sparkline holding up to capacity samples.
func NewSparkline(capacity int) *Sparkline {
	if capacity <= 0 {
		capacity = 60
	}
	return &Sparkline{samples: make([]float64, capacity)}
}

// Add records one sample, evicting the oldest when the buffer is full.
func (s *Sparkline) Add(value float64) {
	s.samples[s.head] = value
	s.head = (s.head + 1) % len(s.samples)
	s.count++
}

// Count returns the number of samples added so far.
func (s *Sparkline) Count() int {
	return s.count
}

// Clear resets the buffer.
func (s *Sparkline) Clear() {
	for i := range s.samples {
		s.samples[i] = 0
	}
	s.head = 0
	s.count = 0
}

// ordered returns the buffered samples oldest first.
func (s *Sparkline) ordered() []float64 {
	n := min(s.count, len(s.samples))
	start := 0
	if s.count >= len(s.samples) {
		start = s.head
	}
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.samples[(start+i)%len(s.samples)])
	}
	return out
}

// Render draws the most recent samples scaled into eight block levels,
// right-aligned within the given width. Zero width uses the buffer
// capacity.
func (s *Sparkline) Render(width int) string {
	if width <= 0 {
		width = len(s.samples)
	}
	values := s.ordered()
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var peak float64
	for _, v := range values {
		peak = max(peak, v)
	}

	var b strings.Builder
	b.Grow(width * 3)
	for pad := width - len(values); pad > 0; pad-- {
		b.WriteRune(' ')
	}
	for _, v := range values {
		idx := 0
		if peak > 0 {
			idx = int(v / peak * float64(len(sparkChars)-1))
			idx = min(max(idx, 0), len(sparkChars)-1)
		}
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}
