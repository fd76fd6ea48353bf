package models

import (
	"time"

	"github.com/google/uuid"
)

// User rows are owned by the auth subsystem; this service only reads them, by
// id and by phone number during recipient lookup.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
