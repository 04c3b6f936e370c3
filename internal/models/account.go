package models

type AccountRole string

const (
	RoleAdmin  AccountRole = "admin"
	RoleViewer AccountRole = "viewer"
)

type Account struct {
	ID           int64       `db:"id" json:"id"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password_hash" json:"-"`
	Role         AccountRole `db:"role" json:"role"`
	MemberID     *int64      `db:"member_id" json:"member_id"`
	IsActive     bool        `db:"is_active" json:"is_active"`
}
