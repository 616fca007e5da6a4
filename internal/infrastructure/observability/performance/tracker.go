// Package performance provides performance tracking for CampaignForge
// operations with lightweight markers and aggregate metrics.
package performance

import (
	"sync"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string         `json:"operation"`       // e.g., "dialogue:process_message"
	UserID    string         `json:"userId"`          // User the operation ran for, if any
	StartTime time.Time      `json:"startTime"`       // When the operation started
	EndTime   time.Time      `json:"endTime"`         // When the operation completed
	Duration  time.Duration  `json:"duration"`        // Total operation duration
	Success   bool           `json:"success"`         // Whether the operation completed successfully
	Error     string         `json:"error,omitempty"` // Error message if operation failed
	Metadata  map[string]any `json:"metadata"`        // Additional operation-specific data
	Completed bool           `json:"completed"`       // Whether Complete() has been called

	tracker *Tracker
}

// Complete marks the operation as finished and calculates final metrics
func (m *Marker) Complete() {
	if m.Completed {
		return // Prevent double completion
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true

	if m.tracker != nil {
		m.tracker.record(m)
	}
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	completed  []*Marker
	maxMarkers int
	started    time.Time
	mu         sync.RWMutex
}

// NewTracker creates a performance tracker retaining up to maxMarkers
// completed operations.
func NewTracker(maxMarkers int) *Tracker {
	if maxMarkers <= 0 {
		maxMarkers = 1000
	}
	return &Tracker{
		maxMarkers: maxMarkers,
		started:    time.Now(),
	}
}

// StartOperation creates a marker for a new operation
func (t *Tracker) StartOperation(operation, userID string) *Marker {
	return &Marker{
		Operation: operation,
		UserID:    userID,
		StartTime: time.Now(),
		Success:   true,
		tracker:   t,
	}
}

func (t *Tracker) record(m *Marker) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed = append(t.completed, m)
	if len(t.completed) > t.maxMarkers {
		t.completed = t.completed[len(t.completed)-t.maxMarkers:]
	}
}

// Stats holds aggregate metrics across recorded operations
type Stats struct {
	Uptime          time.Duration `json:"uptime"`
	TotalOperations int           `json:"totalOperations"`
	FailedCount     int           `json:"failedCount"`
	AvgDuration     time.Duration `json:"avgDuration"`
	MaxDuration     time.Duration `json:"maxDuration"`
}

// GetStats returns aggregate metrics for all retained markers
func (t *Tracker) GetStats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := Stats{
		Uptime:          time.Since(t.started),
		TotalOperations: len(t.completed),
	}

	var total time.Duration
	for _, m := range t.completed {
		total += m.Duration
		if m.Duration > stats.MaxDuration {
			stats.MaxDuration = m.Duration
		}
		if !m.Success {
			stats.FailedCount++
		}
	}
	if len(t.completed) > 0 {
		stats.AvgDuration = total / time.Duration(len(t.completed))
	}

	return stats
}
