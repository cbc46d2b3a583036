package events

import "time"

const (
	TypeMemberRegistered  = "member.registered"
	TypeMembershipRenewed = "membership.renewed"
	TypeMemberSuspended   = "member.suspended"
	TypeMemberReinstated  = "member.reinstated"
	TypeCheckinRecorded   = "checkin.recorded"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType is the subject suffix, e.g. "membership.renewed".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
