package db

import (
	"context"
	"database/sql"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/models"
)

func CreateCourse(ctx context.Context, database *sql.DB, c models.Course) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO courses (code, name, valid_months, warn_months)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		c.Code, c.Name, c.ValidMonths, c.WarnMonths,
	).Scan(&id)
	return id, err
}

func GetCourse(ctx context.Context, database *sql.DB, id int64) (*models.Course, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var c models.Course
	err := database.QueryRowContext(ctx,
		`SELECT id, code, name, valid_months, warn_months FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Code, &c.Name, &c.ValidMonths, &c.WarnMonths)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func ListCourses(ctx context.Context, database *sql.DB) ([]models.Course, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT id, code, name, valid_months, warn_months FROM courses ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.ValidMonths, &c.WarnMonths); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type CourseUpdate struct {
	Name        *string
	ValidMonths *int
	WarnMonths  *int
}

func UpdateCourse(ctx context.Context, database *sql.DB, id int64, u CourseUpdate) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := database.ExecContext(ctx, `
		UPDATE courses SET
			name         = COALESCE($2, name),
			valid_months = COALESCE($3, valid_months),
			warn_months  = COALESCE($4, warn_months)
		WHERE id = $1`,
		id, u.Name, u.ValidMonths, u.WarnMonths)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
