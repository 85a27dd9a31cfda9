package models

import (
	"time"
)

// Tribe is a starting team of contestants, e.g. Cila / Kalo / Vatu.
type Tribe struct {
	ID    string `json:"id" gorm:"primaryKey"` // slug, e.g. "vatu"
	Name  string `json:"name" gorm:"not null"`
	Color string `json:"color"` // hex, for face cards
}

// Contestant is a cast member. IDs are name slugs ("colby-donaldson") so they
// stay stable across seasons of the pool and read well in URLs.
type Contestant struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"not null"`
	TribeID   string `json:"tribe_id" gorm:"not null;index"`
	CastOrder int    `json:"cast_order" gorm:"column:cast_order;default:0"`

	// Bio / stats for face cards
	PreviousSeasons string `json:"previous_seasons"`
	Accomplishment  string `json:"accomplishment"`
	TimesPlayed     int    `json:"times_played" gorm:"default:0"`
	BestFinish      int    `json:"best_finish" gorm:"default:0"`
	IsWinner        bool   `json:"is_winner" gorm:"default:false"`
	PhotoURL        string `json:"photo_url"`

	// Set by the admin outcome endpoint, not by scoring.
	EliminatedInEpisode *int `json:"eliminated_in_episode,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Tribe Tribe `json:"tribe,omitempty" gorm:"foreignKey:TribeID"`
}

// Eliminated reports whether the contestant is out of the game.
func (c *Contestant) Eliminated() bool {
	return c.EliminatedInEpisode != nil
}
