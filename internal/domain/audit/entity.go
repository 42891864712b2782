package audit

import (
	"context"
	"time"
)

type ActorKind string

const (
	ActorSystem ActorKind = "system"
	ActorUser   ActorKind = "user"
)

// Actor is who performed an audited change: the system, or a user by id.
type Actor struct {
	Kind   ActorKind `json:"kind"`
	UserID string    `json:"user_id,omitempty"`
}

func System() Actor {
	return Actor{Kind: ActorSystem}
}

func User(id string) Actor {
	return Actor{Kind: ActorUser, UserID: id}
}

func (a Actor) String() string {
	if a.Kind == ActorSystem {
		return string(ActorSystem)
	}
	return "user:" + a.UserID
}

type EntityType string

const (
	EntityUser       EntityType = "user"
	EntityAttendance EntityType = "attendance"
	EntityLeave      EntityType = "leave"
	EntityPayroll    EntityType = "payroll"
)

const (
	ActionUserCreated            = "user.created"
	ActionUserUpdated            = "user.updated"
	ActionAttendanceMarked       = "attendance.marked"
	ActionAttendanceAutoCheckout = "attendance.auto-checkout"
	ActionLeaveRequested         = "leave.requested"
	ActionLeaveApproved          = "leave.approved"
	ActionLeaveRejected          = "leave.rejected"
	ActionPayrollGenerated       = "payroll.generated"
	ActionPayrollFinalized       = "payroll.finalized"
)

type Changes struct {
	Before any `json:"before,omitempty"`
	After  any `json:"after,omitempty"`
}

type Event struct {
	ID         string     `json:"id"`
	Actor      Actor      `json:"actor"`
	Action     string     `json:"action"`
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Changes    Changes    `json:"changes"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Sink receives audit events. The Postgres repository and the Kafka
// publisher both implement it.
type Sink interface {
	Write(ctx context.Context, event Event) error
}

// Recorder emits audit events. Recording is best-effort and never fails
// the operation that triggered it.
type Recorder interface {
	Record(ctx context.Context, actor Actor, action string, entityType EntityType, entityID string, changes Changes)
}
