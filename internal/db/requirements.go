package db

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/models"
)

const requirementCols = `id, position_id, task_id, req_kind, group_id, course_id,
	required_position_id, req_task_id, min_count, activity_type, within_months`

func scanRequirement(row interface{ Scan(...any) error }) (models.Requirement, error) {
	var r models.Requirement
	var at *string
	err := row.Scan(&r.ID, &r.PositionID, &r.TaskID, &r.Kind, &r.GroupID, &r.CourseID,
		&r.RequiredPositionID, &r.ReqTaskID, &r.MinCount, &at, &r.WithinMonths)
	if at != nil {
		t := models.ActivityType(*at)
		r.ActivityType = &t
	}
	return r, err
}

func CreateRequirement(ctx context.Context, database *sql.DB, r models.Requirement) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var at *string
	if r.ActivityType != nil {
		s := string(*r.ActivityType)
		at = &s
	}
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO requirements
			(position_id, task_id, req_kind, group_id, course_id, required_position_id, req_task_id, min_count, activity_type, within_months)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		r.PositionID, r.TaskID, string(r.Kind), r.GroupID, r.CourseID,
		r.RequiredPositionID, r.ReqTaskID, r.MinCount, at, r.WithinMonths,
	).Scan(&id)
	return id, err
}

func DeleteRequirement(ctx context.Context, database *sql.DB, id int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := database.ExecContext(ctx, `DELETE FROM requirements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// ListPositionRequirements returns every requirement owned by a position
// (task-owned requirements are not part of position evaluation).
func ListPositionRequirements(ctx context.Context, database *sql.DB) ([]models.Requirement, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT `+requirementCols+` FROM requirements WHERE position_id IS NOT NULL ORDER BY position_id, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectRequirements(rows)
}

func RequirementsForPosition(ctx context.Context, database *sql.DB, positionID int64) ([]models.Requirement, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT `+requirementCols+` FROM requirements WHERE position_id = $1 ORDER BY id`, positionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectRequirements(rows)
}

func collectRequirements(rows *sql.Rows) ([]models.Requirement, error) {
	var out []models.Requirement
	for rows.Next() {
		r, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func CreateRequirementGroup(ctx context.Context, database *sql.DB, g models.RequirementGroup) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO requirement_groups (position_id, label, min_met)
		VALUES ($1, $2, $3)
		RETURNING id`,
		g.PositionID, g.Label, g.MinMet,
	).Scan(&id)
	return id, err
}

func DeleteRequirementGroup(ctx context.Context, database *sql.DB, id int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := database.ExecContext(ctx, `DELETE FROM requirement_groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

func ListRequirementGroups(ctx context.Context, database *sql.DB) ([]models.RequirementGroup, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT id, position_id, label, min_met FROM requirement_groups ORDER BY position_id, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectGroups(rows)
}

func GroupsForPosition(ctx context.Context, database *sql.DB, positionID int64) ([]models.RequirementGroup, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT id, position_id, label, min_met FROM requirement_groups WHERE position_id = $1 ORDER BY id`, positionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectGroups(rows)
}

func collectGroups(rows *sql.Rows) ([]models.RequirementGroup, error) {
	var out []models.RequirementGroup
	for rows.Next() {
		var g models.RequirementGroup
		if err := rows.Scan(&g.ID, &g.PositionID, &g.Label, &g.MinMet); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// CourseRequirementsByPosition maps each given position id to the course
// ids of its course-kind requirements. One hop of prerequisite
// resolution; the targets' own position-kind requirements are not
// followed.
func CourseRequirementsByPosition(ctx context.Context, database *sql.DB, positionIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64)
	if len(positionIDs) == 0 {
		return out, nil
	}
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT position_id, course_id
		FROM requirements
		WHERE req_kind = 'course' AND course_id IS NOT NULL AND position_id = ANY($1::bigint[])
		ORDER BY position_id, id`, pq.Array(positionIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var positionID, courseID int64
		if err := rows.Scan(&positionID, &courseID); err != nil {
			return nil, err
		}
		out[positionID] = append(out[positionID], courseID)
	}
	return out, rows.Err()
}
