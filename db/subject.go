package db

import (
	"time"

	"github.com/google/uuid"
)

// Subject is the person a reminder applies to
type Subject struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
