package domain

import "strings"

// LifecycleState enumerates the generation lifecycle states.
type LifecycleState string

const (
	StateIdle       LifecycleState = "idle"
	StateUploading  LifecycleState = "uploading"
	StateUploaded   LifecycleState = "uploaded"
	StateSubmitting LifecycleState = "submitting"
	StateQueued     LifecycleState = "queued"
	StateRunning    LifecycleState = "running"
	StateCompleted  LifecycleState = "completed"
	StateFailed     LifecycleState = "failed"
	StateTimedOut   LifecycleState = "timed_out"
	StateError      LifecycleState = "error"
)

// IsTerminal reports whether no automatic transition leaves the state.
func (s LifecycleState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateTimedOut, StateError:
		return true
	default:
		return false
	}
}

// InFlight reports whether a remote job is being submitted or tracked.
func (s LifecycleState) InFlight() bool {
	switch s {
	case StateSubmitting, StateQueued, StateRunning:
		return true
	default:
		return false
	}
}

// RemoteStatus is the status string reported by the inference service.
type RemoteStatus string

const (
	RemoteInQueue    RemoteStatus = "IN_QUEUE"
	RemoteInProgress RemoteStatus = "IN_PROGRESS"
	RemoteCompleted  RemoteStatus = "COMPLETED"
	RemoteFailed     RemoteStatus = "FAILED"
)

// NormalizeRemoteStatus upper-cases and trims a raw status value.
func NormalizeRemoteStatus(raw string) RemoteStatus {
	return RemoteStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

// JobHandle identifies a submitted remote job.
type JobHandle struct {
	ID string
}

// JobStatus is one decoded status response.
type JobStatus struct {
	ID            string
	Status        RemoteStatus
	Output        []string
	Error         string
	DelayTime     int64
	ExecutionTime int64
}

// FirstOutput returns the result reference, the first element of the output list.
func (s *JobStatus) FirstOutput() string {
	if s == nil || len(s.Output) == 0 {
		return ""
	}
	return strings.TrimSpace(s.Output[0])
}
