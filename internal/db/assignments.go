package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/models"
	"github.com/sar-ops/rosterd/internal/qual"
)

// ExistingAssignments maps every member+position pair that already has a
// qualification record, whatever its status.
func ExistingAssignments(ctx context.Context, database *sql.DB) (map[qual.AssignKey]models.MemberPosition, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT id, member_id, position_id, status, approved_by, approved_at, created_at
		FROM member_positions`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[qual.AssignKey]models.MemberPosition)
	for rows.Next() {
		var mp models.MemberPosition
		if err := rows.Scan(&mp.ID, &mp.MemberID, &mp.PositionID, &mp.Status, &mp.ApprovedBy, &mp.ApprovedAt, &mp.CreatedAt); err != nil {
			return nil, err
		}
		out[qual.AssignKey{MemberID: mp.MemberID, PositionID: mp.PositionID}] = mp
	}
	return out, rows.Err()
}

func ListPositionsForMember(ctx context.Context, database *sql.DB, memberID int64) ([]models.MemberPosition, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT id, member_id, position_id, status, approved_by, approved_at, created_at
		FROM member_positions
		WHERE member_id = $1
		ORDER BY created_at`, memberID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.MemberPosition
	for rows.Next() {
		var mp models.MemberPosition
		if err := rows.Scan(&mp.ID, &mp.MemberID, &mp.PositionID, &mp.Status, &mp.ApprovedBy, &mp.ApprovedAt, &mp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, mp)
	}
	return out, rows.Err()
}

// ApproveMemberPosition upserts the pair to qualified with the approver
// and timestamp. Called only after the requirement check passed.
func ApproveMemberPosition(ctx context.Context, database *sql.DB, memberID, positionID int64, approvedBy *int64, at time.Time) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := database.ExecContext(ctx, `
		INSERT INTO member_positions (member_id, position_id, status, approved_by, approved_at)
		VALUES ($1, $2, 'qualified', $3, $4)
		ON CONFLICT (member_id, position_id)
		DO UPDATE SET status = 'qualified', approved_by = EXCLUDED.approved_by, approved_at = EXCLUDED.approved_at`,
		memberID, positionID, approvedBy, at)
	return err
}
