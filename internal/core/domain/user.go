package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                int
	UUID              uuid.UUID
	Email             string `validate:"required,email,max=255"`
	EncryptedPassword string `validate:"required"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NormalizeEmail lowercases the domain part of an address. The local
// part keeps its case; only the host is case-insensitive.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")

	if at < 0 {
		return email
	}

	return email[:at+1] + strings.ToLower(email[at+1:])
}
