package models

import "time"

// LikeStatus is the approval-workflow state of a playdate request.
type LikeStatus string

const (
	LikeStatusPending  LikeStatus = "pending"
	LikeStatusApproved LikeStatus = "approved"
	LikeStatusRejected LikeStatus = "rejected"
)

// Like is a directed playdate request from one child to another, proposed
// and acted on by their guardians. Approved and rejected are terminal:
// only a pending like can be approved, declined, or withdrawn.
type Like struct {
	ID          int64
	FromChildID int64
	ToChildID   int64
	Status      LikeStatus
	CreatedAt   time.Time
	ApprovedAt  *time.Time
}

// IsActive reports whether the like blocks creation of a duplicate edge
// for the same ordered pair. Rejected likes are not active: a fresh
// request after a decline is allowed.
func (l *Like) IsActive() bool {
	return l.Status == LikeStatusPending || l.Status == LikeStatusApproved
}

// LikeDirection says which side of a like the querying guardian is on.
type LikeDirection string

const (
	DirectionOutgoing LikeDirection = "outgoing"
	DirectionIncoming LikeDirection = "incoming"
)

// LikeView is a like projected for one guardian's dashboard: their own
// child plus the other party's child. GuardianName and GuardianEmail refer
// to the other guardian and are only populated on approved likes — contact
// details are never released before approval.
type LikeView struct {
	LikeID        int64
	Status        LikeStatus
	Direction     LikeDirection
	CreatedAt     time.Time
	ApprovedAt    *time.Time
	MyChild       Child
	OtherChild    Child
	GuardianName  string
	GuardianEmail string
}
