package metrics

import "time"

// NoopRecorder discards all metrics.
type NoopRecorder struct{}

// NewNoop creates a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUserRegistered()              {}
func (n *NoopRecorder) IncLinkCreated()                 {}
func (n *NoopRecorder) IncLinkDeleted()                 {}
func (n *NoopRecorder) IncReminderCreated()             {}
func (n *NoopRecorder) IncFeedFetch(string)             {}
func (n *NoopRecorder) IncEventPublished(string)        {}
func (n *NoopRecorder) ObserveReminderRun(time.Duration) {}
