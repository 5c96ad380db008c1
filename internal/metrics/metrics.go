// Package metrics provides application metric recording.
// The Recorder interface keeps instrumentation swappable; production wiring
// can plug in a real backend later without touching call sites.
package metrics

import "time"

// Recorder records application metrics.
type Recorder interface {
	// IncUserRegistered increments the registered-users counter.
	IncUserRegistered()

	// IncLinkCreated increments the created-links counter.
	IncLinkCreated()

	// IncLinkDeleted increments the deleted-links counter.
	IncLinkDeleted()

	// IncReminderCreated increments the created-reminders counter.
	IncReminderCreated()

	// IncFeedFetch records a feed fetch outcome ("success" or "error").
	IncFeedFetch(outcome string)

	// IncEventPublished records an analytics publish outcome
	// ("success" or "dropped").
	IncEventPublished(outcome string)

	// ObserveReminderRun records the duration of a reminder batch run.
	ObserveReminderRun(d time.Duration)
}
