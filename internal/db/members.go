package db

import (
	"context"
	"database/sql"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/models"
)

const memberCols = `id, first_name, last_name, callsign, email, phone, joined_on, is_active`

func scanMember(row interface{ Scan(...any) error }) (models.Member, error) {
	var m models.Member
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Callsign, &m.Email, &m.Phone, &m.JoinedOn, &m.IsActive)
	return m, err
}

func CreateMember(ctx context.Context, database *sql.DB, m models.Member) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO members (first_name, last_name, callsign, email, phone, joined_on, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		m.FirstName, m.LastName, m.Callsign, m.Email, m.Phone, m.JoinedOn, m.IsActive,
	).Scan(&id)
	return id, err
}

func GetMember(ctx context.Context, database *sql.DB, id int64) (*models.Member, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	m, err := scanMember(database.QueryRowContext(ctx,
		`SELECT `+memberCols+` FROM members WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func ListMembers(ctx context.Context, database *sql.DB, onlyActive bool) ([]models.Member, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	q := `SELECT ` + memberCols + ` FROM members`
	if onlyActive {
		q += ` WHERE is_active = TRUE`
	}
	q += ` ORDER BY LOWER(last_name), LOWER(first_name)`

	rows, err := database.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateMember applies only the provided fields; nil pointers leave the
// current value untouched. is_active handles soft deactivation; members
// are never deleted.
type MemberUpdate struct {
	FirstName *string
	LastName  *string
	Callsign  *string
	Email     *string
	Phone     *string
	IsActive  *bool
}

func UpdateMember(ctx context.Context, database *sql.DB, id int64, u MemberUpdate) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := database.ExecContext(ctx, `
		UPDATE members SET
			first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			callsign   = COALESCE($4, callsign),
			email      = COALESCE($5, email),
			phone      = COALESCE($6, phone),
			is_active  = COALESCE($7, is_active)
		WHERE id = $1`,
		id, u.FirstName, u.LastName, u.Callsign, u.Email, u.Phone, u.IsActive)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
