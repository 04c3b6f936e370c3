package db

import (
	"context"
	"database/sql"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/models"
)

func GetAccountByEmail(ctx context.Context, database *sql.DB, email string) (*models.Account, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var a models.Account
	err := database.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, member_id, is_active
		FROM accounts
		WHERE email = $1 AND is_active = TRUE`, email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.MemberID, &a.IsActive)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func CreateAccount(ctx context.Context, database *sql.DB, a models.Account) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO accounts (email, password_hash, role, member_id, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		a.Email, a.PasswordHash, string(a.Role), a.MemberID, a.IsActive,
	).Scan(&id)
	return id, err
}

func CountAccounts(ctx context.Context, database *sql.DB) (int, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var n int
	err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n)
	return n, err
}
