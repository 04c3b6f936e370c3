package models

import "time"

type TrainingSession struct {
	ID       int64     `db:"id" json:"id"`
	Title    string    `db:"title" json:"title"`
	StartsOn time.Time `db:"starts_on" json:"starts_on"`
	Location *string   `db:"location" json:"location"`
}

type Call struct {
	ID       int64      `db:"id" json:"id"`
	Number   string     `db:"number" json:"number"`
	Title    string     `db:"title" json:"title"`
	OpenedOn time.Time  `db:"opened_on" json:"opened_on"`
	ClosedOn *time.Time `db:"closed_on" json:"closed_on"`
}

type EventKind string

const (
	EventMeeting EventKind = "meeting"
	EventOther   EventKind = "event"
)

type Event struct {
	ID     int64     `db:"id" json:"id"`
	Kind   EventKind `db:"kind" json:"kind"`
	Title  string    `db:"title" json:"title"`
	HeldOn time.Time `db:"held_on" json:"held_on"`
}

// TaskSignoff records an evaluator's confirmation that a member
// demonstrated a task. Immutable once written.
type TaskSignoff struct {
	ID                int64     `db:"id" json:"id"`
	MemberID          int64     `db:"member_id" json:"member_id"`
	TaskID            int64     `db:"task_id" json:"task_id"`
	TaskCode          string    `db:"task_code" json:"task_code"`
	PositionID        *int64    `db:"position_id" json:"position_id"`
	CallID            *int64    `db:"call_id" json:"call_id"`
	TrainingSessionID *int64    `db:"training_session_id" json:"training_session_id"`
	EvaluatorName     string    `db:"evaluator_name" json:"evaluator_name"`
	Notes             *string   `db:"notes" json:"notes"`
	SignedOn          time.Time `db:"signed_on" json:"signed_on"`
}
