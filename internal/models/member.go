package models

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	LoginID        string
	HashedPassword string
}
