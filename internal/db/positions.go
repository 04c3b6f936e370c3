package db

import (
	"context"
	"database/sql"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/models"
)

func CreatePosition(ctx context.Context, database *sql.DB, p models.Position) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO positions (code, name, is_active)
		VALUES ($1, $2, $3)
		RETURNING id`,
		p.Code, p.Name, p.IsActive,
	).Scan(&id)
	return id, err
}

func GetPosition(ctx context.Context, database *sql.DB, id int64) (*models.Position, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var p models.Position
	err := database.QueryRowContext(ctx,
		`SELECT id, code, name, is_active FROM positions WHERE id = $1`, id,
	).Scan(&p.ID, &p.Code, &p.Name, &p.IsActive)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func ListPositions(ctx context.Context, database *sql.DB, onlyActive bool) ([]models.Position, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	q := `SELECT id, code, name, is_active FROM positions`
	if onlyActive {
		q += ` WHERE is_active = TRUE`
	}
	q += ` ORDER BY code`

	rows, err := database.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Position
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.IsActive); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type PositionUpdate struct {
	Name     *string
	IsActive *bool
}

func UpdatePosition(ctx context.Context, database *sql.DB, id int64, u PositionUpdate) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := database.ExecContext(ctx, `
		UPDATE positions SET
			name      = COALESCE($2, name),
			is_active = COALESCE($3, is_active)
		WHERE id = $1`,
		id, u.Name, u.IsActive)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
