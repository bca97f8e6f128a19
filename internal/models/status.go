package models

// Status is the lifecycle state of a service request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var statusTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusCancelled},
	StatusAccepted: {StatusCompleted, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether next is adjacent to s in the lifecycle
// pending -> accepted -> completed, with cancellation from pending or accepted.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
