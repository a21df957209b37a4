// ABOUTME: ProcessingMetrics records the outcome of one embedding attempt
// ABOUTME: Created once per attempt and read-only afterwards
package models

import "time"

// ProcessingMetrics tracks a single text-to-vector processing attempt.
// A failed attempt has Success=false and a non-empty ErrorMessage.
type ProcessingMetrics struct {
	ChunkCount     int           `json:"chunk_count"`
	ProcessingTime time.Duration `json:"processing_time"`
	InputLength    int           `json:"input_length"`
	Success        bool          `json:"success"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	RecordedAt     time.Time     `json:"recorded_at"`
}
