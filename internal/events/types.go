package events

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a single occurrence in a job's container lifecycle
type Event struct {
	// Time is when the event occurred (set by bus on emit)
	Time time.Time `json:"time"`

	// Type identifies what happened
	Type EventType `json:"type"`

	// Job is the job run this event relates to
	Job string `json:"job,omitempty"`

	// Command is the hook command involved (empty if none)
	Command string `json:"command,omitempty"`

	// Payload contains event-specific data (type varies by event)
	Payload any `json:"payload,omitempty"`

	// Error contains error message if this is a failure event
	Error string `json:"error,omitempty"`
}

// EventType is a string constant identifying the event category
type EventType string

// Job container lifecycle events
const (
	JobPrepareStarted   EventType = "job.prepare.started"
	JobPrepareCompleted EventType = "job.prepare.completed"
	JobPrepareFailed    EventType = "job.prepare.failed"

	JobCleanupStarted   EventType = "job.cleanup.started"
	JobCleanupCompleted EventType = "job.cleanup.completed"
	JobCleanupFailed    EventType = "job.cleanup.failed"
)

// Hook events
const (
	// HookUnsupported is emitted when a reserved command is requested
	// Payload: command (string)
	HookUnsupported EventType = "hook.unsupported"

	// ServicePublished is emitted per service written to the job context
	// Payload: alias, id, network (strings)
	ServicePublished EventType = "service.published"
)

// NewEvent creates an event with the given type and job
func NewEvent(eventType EventType, job string) Event {
	return Event{
		Type: eventType,
		Job:  job,
	}
}

// WithCommand returns a copy of the event with the hook command set
func (e Event) WithCommand(cmd string) Event {
	e.Command = cmd
	return e
}

// WithPayload returns a copy of the event with the payload set
func (e Event) WithPayload(payload any) Event {
	e.Payload = payload
	return e
}

// WithError returns a copy of the event with the error message set
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// IsFailure returns true if this is a failure event type
func (e Event) IsFailure() bool {
	return strings.HasSuffix(string(e.Type), ".failed")
}

// String returns a human-readable representation of the event
func (e Event) String() string {
	parts := []string{fmt.Sprintf("[%s]", e.Type)}

	if e.Job != "" {
		parts = append(parts, e.Job)
	}

	if e.Command != "" {
		parts = append(parts, "command="+e.Command)
	}

	if e.Error != "" {
		parts = append(parts, fmt.Sprintf("error=%q", e.Error))
	}

	return strings.Join(parts, " ")
}
