package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/models"
)

func CreateTrainingSession(ctx context.Context, database *sql.DB, t models.TrainingSession) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO training_sessions (title, starts_on, location)
		VALUES ($1, $2, $3)
		RETURNING id`,
		t.Title, t.StartsOn, t.Location,
	).Scan(&id)
	return id, err
}

func ListTrainingSessions(ctx context.Context, database *sql.DB) ([]models.TrainingSession, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT id, title, starts_on, location FROM training_sessions ORDER BY starts_on DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.TrainingSession
	for rows.Next() {
		var t models.TrainingSession
		if err := rows.Scan(&t.ID, &t.Title, &t.StartsOn, &t.Location); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AddTrainingAttendance records the whole list in one transaction so a
// bad member id does not leave a half-recorded roster.
func AddTrainingAttendance(ctx context.Context, database *sql.DB, sessionID int64, memberIDs []int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO training_attendance (member_id, training_session_id)
		VALUES ($1, $2)
		ON CONFLICT (member_id, training_session_id) DO NOTHING`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, memberID := range memberIDs {
		if _, err := stmt.ExecContext(ctx, memberID, sessionID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func CreateCall(ctx context.Context, database *sql.DB, c models.Call) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO calls (number, title, opened_on, closed_on)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		c.Number, c.Title, c.OpenedOn, c.ClosedOn,
	).Scan(&id)
	return id, err
}

func ListCalls(ctx context.Context, database *sql.DB) ([]models.Call, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT id, number, title, opened_on, closed_on FROM calls ORDER BY opened_on DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Call
	for rows.Next() {
		var c models.Call
		if err := rows.Scan(&c.ID, &c.Number, &c.Title, &c.OpenedOn, &c.ClosedOn); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func AddCallAttendance(ctx context.Context, database *sql.DB, callID, memberID int64, timeIn time.Time, timeOut *time.Time) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := database.ExecContext(ctx, `
		INSERT INTO call_attendance (member_id, call_id, time_in, time_out)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (member_id, call_id) DO NOTHING`,
		memberID, callID, timeIn, timeOut)
	return err
}

func CreateEvent(ctx context.Context, database *sql.DB, e models.Event) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO events (kind, title, held_on)
		VALUES ($1, $2, $3)
		RETURNING id`,
		string(e.Kind), e.Title, e.HeldOn,
	).Scan(&id)
	return id, err
}

func ListEvents(ctx context.Context, database *sql.DB) ([]models.Event, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT id, kind, title, held_on FROM events ORDER BY held_on DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Kind, &e.Title, &e.HeldOn); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func AddEventAttendance(ctx context.Context, database *sql.DB, eventID int64, memberIDs []int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO event_attendance (member_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (member_id, event_id) DO NOTHING`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, memberID := range memberIDs {
		if _, err := stmt.ExecContext(ctx, memberID, eventID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ActivityDates returns the member's training-session start dates and call
// time-in dates. Only the dates matter; they feed time-kind requirements.
func ActivityDates(ctx context.Context, database *sql.DB, memberID int64) (training, calls []time.Time, err error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT ts.starts_on
		FROM training_attendance ta
		JOIN training_sessions ts ON ts.id = ta.training_session_id
		WHERE ta.member_id = $1`, memberID)
	if err != nil {
		return nil, nil, err
	}
	training, err = collectDates(rows)
	if err != nil {
		return nil, nil, err
	}

	rows, err = database.QueryContext(ctx,
		`SELECT time_in FROM call_attendance WHERE member_id = $1`, memberID)
	if err != nil {
		return nil, nil, err
	}
	calls, err = collectDates(rows)
	if err != nil {
		return nil, nil, err
	}
	return training, calls, nil
}

// AllActivityDates is the batch variant: one query round for the whole
// roster instead of one per member.
func AllActivityDates(ctx context.Context, database *sql.DB) (training, calls map[int64][]time.Time, err error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT ta.member_id, ts.starts_on
		FROM training_attendance ta
		JOIN training_sessions ts ON ts.id = ta.training_session_id`)
	if err != nil {
		return nil, nil, err
	}
	training, err = collectDatesByMember(rows)
	if err != nil {
		return nil, nil, err
	}

	rows, err = database.QueryContext(ctx, `SELECT member_id, time_in FROM call_attendance`)
	if err != nil {
		return nil, nil, err
	}
	calls, err = collectDatesByMember(rows)
	if err != nil {
		return nil, nil, err
	}
	return training, calls, nil
}

func collectDates(rows *sql.Rows) ([]time.Time, error) {
	defer func() { _ = rows.Close() }()
	var out []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func collectDatesByMember(rows *sql.Rows) (map[int64][]time.Time, error) {
	defer func() { _ = rows.Close() }()
	out := make(map[int64][]time.Time)
	for rows.Next() {
		var memberID int64
		var d time.Time
		if err := rows.Scan(&memberID, &d); err != nil {
			return nil, err
		}
		out[memberID] = append(out[memberID], d)
	}
	return out, rows.Err()
}
