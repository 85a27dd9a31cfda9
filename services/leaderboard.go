// services/leaderboard.go
package services

import (
	"errors"

	"github.com/Mreoch1/Survivor-Fan-Game/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LeaderboardRow is a ledger decorated with the member's display name.
type LeaderboardRow struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`

	SurvivalPoints           int  `json:"survival_points"`
	TribeImmunityPoints      int  `json:"tribe_immunity_points"`
	IndividualImmunityPoints int  `json:"individual_immunity_points"`
	VoteOutPoints            int  `json:"vote_out_points"`
	TotalPoints              int  `json:"total_points"`
	WeeksSurvived            int  `json:"weeks_survived"`
	EliminationsHit          int  `json:"eliminations_hit"`
	LastWeekDelta            *int `json:"last_week_delta,omitempty"`
}

// GetLeaderboard returns the season standings, highest total first. Members
// who left the pool are hidden, not removed, so their rows are filtered here.
func (s *ScoreService) GetLeaderboard(c *fiber.Ctx) error {
	var scores []models.SeasonScore
	if err := s.DB.Where("season = ?", s.Config.Season).
		Order("total_points DESC, weeks_survived DESC").
		Find(&scores).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load leaderboard"})
	}

	var members []models.PoolMember
	if err := s.DB.Find(&members).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load members"})
	}
	names := make(map[string]models.PoolMember, len(members))
	for _, m := range members {
		names[m.ExternalUserID] = m
	}

	rows := make([]LeaderboardRow, 0, len(scores))
	for _, sc := range scores {
		member, known := names[sc.UserID]
		if known && member.Hidden {
			continue
		}
		row := LeaderboardRow{
			Rank:                     len(rows) + 1,
			UserID:                   sc.UserID,
			SurvivalPoints:           sc.SurvivalPoints,
			TribeImmunityPoints:      sc.TribeImmunityPoints,
			IndividualImmunityPoints: sc.IndividualImmunityPoints,
			VoteOutPoints:            sc.VoteOutPoints,
			TotalPoints:              sc.TotalPoints,
			WeeksSurvived:            sc.WeeksSurvived,
			EliminationsHit:          sc.EliminationsHit,
			LastWeekDelta:            sc.LastWeekDelta,
		}
		if known {
			row.DisplayName = member.DisplayName
		}
		rows = append(rows, row)
	}

	return c.JSON(fiber.Map{"season": s.Config.Season, "leaderboard": rows})
}

// GetMyScore returns the caller's own ledger. A user who has never been
// scored gets a zeroed ledger rather than a 404.
func (s *ScoreService) GetMyScore(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user context"})
	}

	var score models.SeasonScore
	err := s.DB.Where("user_id = ? AND season = ?", userID, s.Config.Season).First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		score = models.SeasonScore{UserID: userID, Season: s.Config.Season}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load score"})
	}

	return c.JSON(score)
}
