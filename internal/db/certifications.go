package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/models"
	"github.com/sar-ops/rosterd/internal/qual"
)

// AddCertification records a completed course. The expiry date comes from
// the course's valid_months; renewals insert a new row and the old one is
// kept for audit.
func AddCertification(ctx context.Context, database *sql.DB, memberID, courseID int64, completedOn time.Time, recordedBy *int64) (*models.Certification, error) {
	course, err := GetCourse(ctx, database, courseID)
	if err != nil {
		return nil, fmt.Errorf("course %d: %w", courseID, err)
	}

	var expiresOn *time.Time
	if course.ValidMonths != nil {
		e := completedOn.AddDate(0, *course.ValidMonths, 0)
		expiresOn = &e
	}

	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	c := models.Certification{
		MemberID:    memberID,
		CourseID:    courseID,
		CourseCode:  course.Code,
		CompletedOn: completedOn,
		ExpiresOn:   expiresOn,
		RecordedBy:  recordedBy,
	}
	err = database.QueryRowContext(ctx, `
		INSERT INTO certifications (member_id, course_id, completed_on, expires_on, recorded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		memberID, courseID, completedOn, expiresOn, recordedBy,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func ListCertificationsForMember(ctx context.Context, database *sql.DB, memberID int64) ([]models.Certification, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT c.id, c.member_id, c.course_id, co.code, c.completed_on, c.expires_on, c.recorded_by, c.created_at
		FROM certifications c
		JOIN courses co ON co.id = c.course_id
		WHERE c.member_id = $1
		ORDER BY c.completed_on DESC, c.id DESC`, memberID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Certification
	for rows.Next() {
		var c models.Certification
		if err := rows.Scan(&c.ID, &c.MemberID, &c.CourseID, &c.CourseCode, &c.CompletedOn, &c.ExpiresOn, &c.RecordedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RosterCertRow is the flattened shape the roster export uses.
type RosterCertRow struct {
	MemberName  string
	CourseCode  string
	CompletedOn time.Time
	ExpiresOn   *time.Time
}

func ListAllCertifications(ctx context.Context, database *sql.DB) ([]RosterCertRow, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT m.last_name || ' ' || m.first_name, co.code, c.completed_on, c.expires_on
		FROM certifications c
		JOIN members m ON m.id = c.member_id
		JOIN courses co ON co.id = c.course_id
		ORDER BY lower(m.last_name), lower(m.first_name), co.code, c.completed_on DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []RosterCertRow
	for rows.Next() {
		var r RosterCertRow
		if err := rows.Scan(&r.MemberName, &r.CourseCode, &r.CompletedOn, &r.ExpiresOn); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ValidCourseIDsByMember returns, for every member, the set of course ids
// with a certification that has not expired as of today. Date comparison:
// a certification is still valid on its expiry date.
func ValidCourseIDsByMember(ctx context.Context, database *sql.DB, today time.Time) (map[int64]map[int64]struct{}, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT DISTINCT member_id, course_id
		FROM certifications
		WHERE expires_on IS NULL OR expires_on >= $1`, today)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64]map[int64]struct{})
	for rows.Next() {
		var memberID, courseID int64
		if err := rows.Scan(&memberID, &courseID); err != nil {
			return nil, err
		}
		set := out[memberID]
		if set == nil {
			set = make(map[int64]struct{})
			out[memberID] = set
		}
		set[courseID] = struct{}{}
	}
	return out, rows.Err()
}

func ValidCourseIDs(ctx context.Context, database *sql.DB, memberID int64, today time.Time) (map[int64]struct{}, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT DISTINCT course_id
		FROM certifications
		WHERE member_id = $1 AND (expires_on IS NULL OR expires_on >= $2)`, memberID, today)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64]struct{})
	for rows.Next() {
		var courseID int64
		if err := rows.Scan(&courseID); err != nil {
			return nil, err
		}
		out[courseID] = struct{}{}
	}
	return out, rows.Err()
}

type ExpiringCert struct {
	MemberID   int64     `db:"member_id" json:"member_id"`
	MemberName string    `db:"member_name" json:"member_name"`
	CourseID   int64     `db:"course_id" json:"course_id"`
	CourseCode string    `db:"course_code" json:"course_code"`
	ExpiresOn  time.Time `db:"expires_on" json:"expires_on"`
}

// ListExpiringCertifications reports each member's newest certification
// per course when it expires inside the course's warn window (or the
// override, when months > 0). Already-expired records are left out.
func ListExpiringCertifications(ctx context.Context, database *sql.DB, today time.Time, months int) ([]ExpiringCert, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	// A certification is still in the report on its final valid day, so
	// the comparison has to be date against date, not date against clock.
	today = qual.Day(today)
	rows, err := database.QueryContext(ctx, `
		SELECT member_id, member_name, course_id, course_code, expires_on FROM (
			SELECT DISTINCT ON (c.member_id, c.course_id)
				c.member_id,
				m.last_name || ' ' || m.first_name AS member_name,
				c.course_id,
				co.code AS course_code,
				c.expires_on,
				co.warn_months
			FROM certifications c
			JOIN members m ON m.id = c.member_id AND m.is_active = TRUE
			JOIN courses co ON co.id = c.course_id
			WHERE c.expires_on IS NOT NULL
			ORDER BY c.member_id, c.course_id, c.expires_on DESC NULLS LAST, c.id DESC
		) latest
		WHERE expires_on >= $1
		  AND expires_on <= $1::date + make_interval(months => CASE WHEN $2 > 0 THEN $2 ELSE warn_months END)
		ORDER BY expires_on, member_name`, today, months)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ExpiringCert
	for rows.Next() {
		var e ExpiringCert
		if err := rows.Scan(&e.MemberID, &e.MemberName, &e.CourseID, &e.CourseCode, &e.ExpiresOn); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
