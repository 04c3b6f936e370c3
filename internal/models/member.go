package models

import "time"

type Member struct {
	ID        int64      `db:"id" json:"id"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	Callsign  *string    `db:"callsign" json:"callsign"`
	Email     *string    `db:"email" json:"email"`
	Phone     *string    `db:"phone" json:"phone"`
	JoinedOn  *time.Time `db:"joined_on" json:"joined_on"`
	IsActive  bool       `db:"is_active" json:"is_active"`
}

type PositionStatus string

const (
	StatusTrainee   PositionStatus = "trainee"
	StatusQualified PositionStatus = "qualified"
	StatusSuspended PositionStatus = "suspended"
)

// MemberPosition is the qualification record itself. The evaluator only
// reads it; rows are written when an admin approves a transition.
type MemberPosition struct {
	ID         int64          `db:"id" json:"id"`
	MemberID   int64          `db:"member_id" json:"member_id"`
	PositionID int64          `db:"position_id" json:"position_id"`
	Status     PositionStatus `db:"status" json:"status"`
	ApprovedBy *int64         `db:"approved_by" json:"approved_by"`
	ApprovedAt *time.Time     `db:"approved_at" json:"approved_at"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
