package valueobjects

import "fmt"

type ThreadStatus string

const (
	StatusOpen           ThreadStatus = "open"
	StatusInReview       ThreadStatus = "in_review"
	StatusWaitingForUser ThreadStatus = "waiting_for_user"
	StatusResolved       ThreadStatus = "resolved"
	StatusClosed         ThreadStatus = "closed"
)

// allStatuses lists statuses in their nominal lifecycle order.
var allStatuses = []ThreadStatus{
	StatusOpen,
	StatusInReview,
	StatusWaitingForUser,
	StatusResolved,
	StatusClosed,
}

var validThreadStatuses = map[ThreadStatus]bool{
	StatusOpen:           true,
	StatusInReview:       true,
	StatusWaitingForUser: true,
	StatusResolved:       true,
	StatusClosed:         true,
}

func (s ThreadStatus) String() string {
	return string(s)
}

func (s ThreadStatus) IsValid() bool {
	return validThreadStatuses[s]
}

// CanTransitionTo reports whether a thread may move to next. The lifecycle is
// permissive: any valid status is reachable from any other, including reopening.
func (s ThreadStatus) CanTransitionTo(next ThreadStatus) bool {
	return s.IsValid() && next.IsValid()
}

func (s ThreadStatus) IsClosed() bool {
	return s == StatusClosed
}

func (s ThreadStatus) IsResolved() bool {
	return s == StatusResolved
}

// AllStatuses returns every status in nominal lifecycle order.
func AllStatuses() []ThreadStatus {
	out := make([]ThreadStatus, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func NewThreadStatus(s string) (ThreadStatus, error) {
	ts := ThreadStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid thread status: %s", s)
	}
	return ts, nil
}
