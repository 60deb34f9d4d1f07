package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshRecord is the persisted refresh token of a member.
// The store keeps at most one record per member: a new login replaces the
// previous one, so only the latest issued refresh token is recognized.
type RefreshRecord struct {
	MemberID  uuid.UUID
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TokenPair issued on login. Only the refresh token is persisted (as a
// RefreshRecord), the pair itself lives for one response.
type TokenPair struct {
	GrantType        string
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
