package entity

import "time"

// LoginIDType distinguishes email logins (which can receive reset tokens)
// from other identifiers.
type LoginIDType int16

const (
	LoginIDTypeEmail LoginIDType = 0
	LoginIDTypeOther LoginIDType = 1
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in PasswordHash.
// ResetToken is either empty or paired with a non-null ResetTokenTime.
type User struct {
	ID             int64
	LoginID        string
	LoginIDType    LoginIDType
	DisplayName    string
	PasswordHash   string
	ResetToken     string
	ResetTokenTime *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
