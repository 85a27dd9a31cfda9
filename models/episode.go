package models

import (
	"time"
)

// Episode is one scored round of the season. Created by an admin before air
// date; the outcome fields are filled in post-broadcast. Episodes are never
// deleted.
type Episode struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Season        int       `json:"season" gorm:"not null;index"`
	EpisodeNumber int       `json:"episode_number" gorm:"not null"`
	// Picks for this episode are immutable at and after LockAt
	LockAt time.Time `json:"lock_at" gorm:"not null"`

	// Outcome — set once known. An episode is "resolved" iff
	// VotedOutContestantID is non-nil (covers vote-outs and medevacs).
	VotedOutContestantID *string `json:"voted_out_contestant_id,omitempty"`
	WinningTribeID       *string `json:"winning_tribe_id,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Resolved reports whether the episode's elimination outcome has been recorded.
func (e *Episode) Resolved() bool {
	return e.VotedOutContestantID != nil
}

// Locked reports whether picks for this episode are frozen.
func (e *Episode) Locked(now time.Time) bool {
	return !now.Before(e.LockAt)
}

// EpisodeProcessed is the one-row-per-episode fact that scoring ran.
// Its existence is the sole source of truth for idempotence.
type EpisodeProcessed struct {
	EpisodeID   string    `json:"episode_id" gorm:"primaryKey"`
	ProcessedAt time.Time `json:"processed_at" gorm:"autoCreateTime"`
}
