package db

import (
	"context"
	"database/sql"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/models"
)

func CreateTask(ctx context.Context, database *sql.DB, t models.Task) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO tasks (code, name, position_id, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		t.Code, t.Name, t.PositionID, t.IsActive,
	).Scan(&id)
	return id, err
}

func ListTasks(ctx context.Context, database *sql.DB, onlyActive bool) ([]models.Task, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	q := `SELECT id, code, name, position_id, is_active FROM tasks`
	if onlyActive {
		q += ` WHERE is_active = TRUE`
	}
	q += ` ORDER BY code`

	rows, err := database.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.PositionID, &t.IsActive); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
