package models

// SeasonScore is a user's cumulative, categorized point ledger for one season.
// Rows are created zeroed on the user's first scoring event and only ever
// mutated by episode processing. TotalPoints must always equal the sum of the
// four category subtotals — recomputed in the same write as any subtotal
// change.
type SeasonScore struct {
	UserID string `json:"user_id" gorm:"primaryKey"`
	Season int    `json:"season" gorm:"primaryKey"`

	SurvivalPoints           int `json:"survival_points" gorm:"default:0"`
	TribeImmunityPoints      int `json:"tribe_immunity_points" gorm:"default:0"`
	IndividualImmunityPoints int `json:"individual_immunity_points" gorm:"default:0"` // reserved, post-merge
	VoteOutPoints            int `json:"vote_out_points" gorm:"default:0"`
	TotalPoints              int `json:"total_points" gorm:"default:0"`

	WeeksSurvived   int `json:"weeks_survived" gorm:"default:0"`
	EliminationsHit int `json:"eliminations_hit" gorm:"default:0"`
	// +1 or -1 from the most recent processed episode; nil until first scored.
	// Display only.
	LastWeekDelta *int `json:"last_week_delta,omitempty"`
}

// RecomputeTotal re-derives the aggregate from the category subtotals.
func (s *SeasonScore) RecomputeTotal() {
	s.TotalPoints = s.SurvivalPoints + s.TribeImmunityPoints +
		s.IndividualImmunityPoints + s.VoteOutPoints
}
