package metrics

import (
	"sync"
	"time"
)

// InMemoryRecorder counts metrics in memory. Used in tests.
type InMemoryRecorder struct {
	mu sync.Mutex

	UsersRegistered  int
	LinksCreated     int
	LinksDeleted     int
	RemindersCreated int
	FeedFetches      map[string]int
	EventsPublished  map[string]int
	ReminderRuns     []time.Duration
}

// NewInMemory creates an in-memory Recorder.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		FeedFetches:     make(map[string]int),
		EventsPublished: make(map[string]int),
	}
}

func (m *InMemoryRecorder) IncUserRegistered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UsersRegistered++
}

func (m *InMemoryRecorder) IncLinkCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinksCreated++
}

func (m *InMemoryRecorder) IncLinkDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinksDeleted++
}

func (m *InMemoryRecorder) IncReminderCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemindersCreated++
}

func (m *InMemoryRecorder) IncFeedFetch(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFetches[outcome]++
}

func (m *InMemoryRecorder) IncEventPublished(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EventsPublished[outcome]++
}

func (m *InMemoryRecorder) ObserveReminderRun(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReminderRuns = append(m.ReminderRuns, d)
}

// Snapshot returns a copy of the feed fetch counters.
func (m *InMemoryRecorder) Snapshot() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.FeedFetches))
	for k, v := range m.FeedFetches {
		out[k] = v
	}
	return out
}
