package models

import "time"

type Course struct {
	ID          int64  `db:"id" json:"id"`
	Code        string `db:"code" json:"code"`
	Name        string `db:"name" json:"name"`
	ValidMonths *int   `db:"valid_months" json:"valid_months"` // nil: certification never expires
	WarnMonths  int    `db:"warn_months" json:"warn_months"`
}

type Certification struct {
	ID          int64      `db:"id" json:"id"`
	MemberID    int64      `db:"member_id" json:"member_id"`
	CourseID    int64      `db:"course_id" json:"course_id"`
	CourseCode  string     `db:"course_code" json:"course_code"`
	CompletedOn time.Time  `db:"completed_on" json:"completed_on"`
	ExpiresOn   *time.Time `db:"expires_on" json:"expires_on"` // nil for never-expiring courses
	RecordedBy  *int64     `db:"recorded_by" json:"recorded_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Valid reports whether the certification still counts toward course
// requirements on the given date. A certification is still valid on its
// exact expiry date.
func (c Certification) Valid(today time.Time) bool {
	if c.ExpiresOn == nil {
		return true
	}
	return !c.ExpiresOn.Before(truncateToDay(today))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
