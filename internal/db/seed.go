package db

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sar-ops/rosterd/internal/models"
)

// SeedBootstrapAdmin creates the first admin account when the accounts
// table is empty, so a fresh deployment can be logged into. No-op when
// accounts exist or the bootstrap env vars are unset.
func SeedBootstrapAdmin(ctx context.Context, database *sql.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	n, err := CountAccounts(ctx, database)
	if err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}
	_, err = CreateAccount(ctx, database, models.Account{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	return nil
}
