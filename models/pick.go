package models

import (
	"time"
)

// WinnerPick is a user's standing bet on the eventual season winner.
// ContestantID goes nil when the pick is voted out — the user scores nothing
// further in the survival category until they pick again.
type WinnerPick struct {
	ID           string  `json:"id" gorm:"primaryKey"`
	UserID       string  `json:"user_id" gorm:"not null;uniqueIndex:idx_winner_pick_user_season"`
	Season       int     `json:"season" gorm:"not null;uniqueIndex:idx_winner_pick_user_season"`
	ContestantID *string `json:"contestant_id"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TribePick is a user's per-episode bet on which tribe wins immunity.
// Mutable only before the episode's lock time.
type TribePick struct {
	ID        string `json:"id" gorm:"primaryKey"`
	UserID    string `json:"user_id" gorm:"not null;uniqueIndex:idx_tribe_pick_user_episode"`
	EpisodeID string `json:"episode_id" gorm:"not null;uniqueIndex:idx_tribe_pick_user_episode"`
	TribeID   string `json:"tribe_id" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// VoteOutPick is a user's per-episode bet on who gets voted out.
// Same lock rule as TribePick.
type VoteOutPick struct {
	ID           string `json:"id" gorm:"primaryKey"`
	UserID       string `json:"user_id" gorm:"not null;uniqueIndex:idx_voteout_pick_user_episode"`
	EpisodeID    string `json:"episode_id" gorm:"not null;uniqueIndex:idx_voteout_pick_user_episode"`
	ContestantID string `json:"contestant_id" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
