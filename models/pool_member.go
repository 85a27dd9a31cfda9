package models

import (
	"time"
)

// PoolMember mirrors the profile service's user records so the leaderboard
// can show display names without a cross-service call per request. Kept fresh
// by the member sync worker.
type PoolMember struct {
	ID             string `json:"id" gorm:"primaryKey"`
	ExternalUserID string `json:"external_user_id" gorm:"uniqueIndex;not null"`
	DisplayName    string `json:"display_name"`
	Email          string `json:"email"`
	Hidden         bool   `json:"hidden" gorm:"default:false"` // left the pool; never purged

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
