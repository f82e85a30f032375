package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal slice of the CRM user the engine needs: identity for
// session ownership and an address for the summary email.
type User struct {
	Id        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
}
