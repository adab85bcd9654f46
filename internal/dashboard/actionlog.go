package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"opsflow/internal/models"
)

const defaultActionLogSize = 100

// ActionLog is the in-memory session activity feed, newest entry first.
type ActionLog struct {
	mu      sync.RWMutex
	entries []models.ActionLogEntry
	size    int
	now     func() time.Time
}

func NewActionLog(size int) *ActionLog {
	if size <= 0 {
		size = defaultActionLogSize
	}
	return &ActionLog{size: size, now: time.Now}
}

// Add records a completed action and returns the stored entry.
func (l *ActionLog) Add(category models.LogCategory, message string) models.ActionLogEntry {
	entry := models.ActionLogEntry{
		ID:        uuid.NewString(),
		Category:  category,
		Message:   message,
		Timestamp: l.now().Format("15:04:05"),
		Status:    models.LogCompleted,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]models.ActionLogEntry{entry}, l.entries...)
	if len(l.entries) > l.size {
		l.entries = l.entries[:l.size]
	}
	return entry
}

func (l *ActionLog) Entries() []models.ActionLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.ActionLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
