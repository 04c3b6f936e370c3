package models

type Position struct {
	ID       int64  `db:"id" json:"id"`
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

type Task struct {
	ID         int64  `db:"id" json:"id"`
	Code       string `db:"code" json:"code"`
	Name       string `db:"name" json:"name"`
	PositionID *int64 `db:"position_id" json:"position_id"`
	IsActive   bool   `db:"is_active" json:"is_active"`
}

type ReqKind string

const (
	ReqCourse   ReqKind = "course"
	ReqPosition ReqKind = "position"
	ReqTask     ReqKind = "task"
	ReqTime     ReqKind = "time"
	// Manual-review kinds. Never checked automatically; the evaluator
	// treats them (and anything else unknown) as satisfied.
	ReqTest        ReqKind = "test"
	ReqPhysical    ReqKind = "physical"
	ReqProficiency ReqKind = "proficiency"
)

type ActivityType string

const (
	ActivityTraining ActivityType = "training"
	ActivityCall     ActivityType = "call"
	ActivityAny      ActivityType = "any"
)

// Requirement is one gating condition on a position (or task). Exactly one
// of PositionID/TaskID is set, naming the owner. GroupID nil means the
// requirement is mandatory; otherwise it belongs to an "N of M" group.
type Requirement struct {
	ID         int64   `db:"id" json:"id"`
	PositionID *int64  `db:"position_id" json:"position_id"`
	TaskID     *int64  `db:"task_id" json:"task_id"`
	Kind       ReqKind `db:"req_kind" json:"req_kind"`
	GroupID    *int64  `db:"group_id" json:"group_id"`

	// course
	CourseID *int64 `db:"course_id" json:"course_id"`
	// position (one-hop prerequisite)
	RequiredPositionID *int64 `db:"required_position_id" json:"required_position_id"`
	// task
	ReqTaskID *int64 `db:"req_task_id" json:"req_task_id"`
	// time
	MinCount     *int          `db:"min_count" json:"min_count"`
	ActivityType *ActivityType `db:"activity_type" json:"activity_type"`
	WithinMonths *int          `db:"within_months" json:"within_months"` // nil: unbounded window
}

type RequirementGroup struct {
	ID         int64  `db:"id" json:"id"`
	PositionID int64  `db:"position_id" json:"position_id"`
	Label      string `db:"label" json:"label"`
	MinMet     int    `db:"min_met" json:"min_met"`
}
