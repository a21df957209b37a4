// ABOUTME: Concurrent-safe log of per-embedding ProcessingMetrics
// ABOUTME: Keys are content-hash fingerprints plus a monotonic counter, never raw text prefixes
package embedder

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/sciencedecoder/decoder/internal/models"
)

// fingerprintLen is the number of hex characters of the content hash kept in
// a metrics key. The counter suffix makes keys unique even for identical
// inputs, so two long texts sharing a prefix can never overwrite each other.
const fingerprintLen = 12

// MetricsLog records one ProcessingMetrics entry per embedding attempt.
// Appends are keyed inserts guarded by a mutex, safe for concurrent callers.
type MetricsLog struct {
	mu      sync.Mutex
	entries map[string]models.ProcessingMetrics
	seq     uint64
}

// NewMetricsLog creates an empty metrics log.
func NewMetricsLog() *MetricsLog {
	return &MetricsLog{entries: make(map[string]models.ProcessingMetrics)}
}

// Record stores a metrics entry for the given input text and returns its key.
func (l *MetricsLog) Record(text string, m models.ProcessingMetrics) string {
	m.RecordedAt = time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	key := fmt.Sprintf("%s-%06d", fingerprint(text), l.seq)
	l.entries[key] = m
	return key
}

// Get returns the entry for a key, if present.
func (l *MetricsLog) Get(key string) (models.ProcessingMetrics, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.entries[key]
	return m, ok
}

// Snapshot returns a copy of all recorded entries.
func (l *MetricsLog) Snapshot() map[string]models.ProcessingMetrics {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]models.ProcessingMetrics, len(l.entries))
	for k, v := range l.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of recorded entries.
func (l *MetricsLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}
