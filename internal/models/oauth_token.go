package models

import "time"

// OAuthToken is an access token minted by the client credentials grant.
// No refresh tokens are issued: dashboards request a new token when this one expires.
type OAuthToken struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	ClientID    string    `gorm:"index;not null" json:"client_id"`
	UserID      string    `json:"user_id"`
	AccessToken string    `gorm:"uniqueIndex;not null" json:"-"`
	Scopes      string    `json:"scopes"`
	ExpiresAt   time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (OAuthToken) TableName() string {
	return "oauth_tokens"
}

// Expired reports whether the token can no longer be used at now
func (t OAuthToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
