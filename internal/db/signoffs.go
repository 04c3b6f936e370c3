package db

import (
	"context"
	"database/sql"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/models"
	"github.com/sar-ops/rosterd/internal/qual"
)

// AddTaskSignoff inserts the immutable audit record of an evaluator
// approving a demonstrated task. The unique constraint rejects a second
// signoff for the same member+task(+position).
func AddTaskSignoff(ctx context.Context, database *sql.DB, s models.TaskSignoff) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO task_signoffs
			(member_id, task_id, position_id, call_id, training_session_id, evaluator_name, notes, signed_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		s.MemberID, s.TaskID, s.PositionID, s.CallID, s.TrainingSessionID,
		s.EvaluatorName, s.Notes, s.SignedOn,
	).Scan(&id)
	return id, err
}

func ListSignoffsForMember(ctx context.Context, database *sql.DB, memberID int64) ([]models.TaskSignoff, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT s.id, s.member_id, s.task_id, t.code, s.position_id, s.call_id, s.training_session_id,
		       s.evaluator_name, s.notes, s.signed_on
		FROM task_signoffs s
		JOIN tasks t ON t.id = s.task_id
		WHERE s.member_id = $1
		ORDER BY s.signed_on DESC, s.id DESC`, memberID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.TaskSignoff
	for rows.Next() {
		var s models.TaskSignoff
		if err := rows.Scan(&s.ID, &s.MemberID, &s.TaskID, &s.TaskCode, &s.PositionID, &s.CallID,
			&s.TrainingSessionID, &s.EvaluatorName, &s.Notes, &s.SignedOn); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// TaskSignoffSet returns every member+task pair with a signoff, as the
// evaluator's lookup set.
func TaskSignoffSet(ctx context.Context, database *sql.DB) (map[qual.SignoffKey]struct{}, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `SELECT DISTINCT member_id, task_id FROM task_signoffs`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[qual.SignoffKey]struct{})
	for rows.Next() {
		var k qual.SignoffKey
		if err := rows.Scan(&k.MemberID, &k.TaskID); err != nil {
			return nil, err
		}
		out[k] = struct{}{}
	}
	return out, rows.Err()
}

func SignoffTaskIDs(ctx context.Context, database *sql.DB, memberID int64) (map[int64]struct{}, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT DISTINCT task_id FROM task_signoffs WHERE member_id = $1`, memberID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}
