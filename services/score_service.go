// services/score_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/Mreoch1/Survivor-Fan-Game/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scoring failure modes. Anything else coming out of Reconcile is a store
// error with the underlying message preserved.
var (
	ErrEpisodeNotFound = errors.New("episode not found")
	ErrWrongSeason     = errors.New("episode is not in the active season")
	ErrNotResolved     = errors.New("episode has no voted-out contestant set")
)

// ScoreConfig holds the season scope and per-category point increments.
// The point values have churned between rulesets before, so they are env
// config, not constants.
type ScoreConfig struct {
	Season              int
	TribeImmunityPoints int
	VoteOutPoints       int
}

// Ruleset defaults (current season).
const (
	defaultSeason              = 50
	defaultTribeImmunityPoints = 1
	defaultVoteOutPoints       = 2
)

// LoadScoreConfig reads SEASON, TRIBE_IMMUNITY_POINTS and VOTE_OUT_POINTS,
// falling back to the current ruleset defaults.
func LoadScoreConfig() ScoreConfig {
	cfg := ScoreConfig{
		Season:              defaultSeason,
		TribeImmunityPoints: defaultTribeImmunityPoints,
		VoteOutPoints:       defaultVoteOutPoints,
	}
	if v := os.Getenv("SEASON"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Season = n
		} else {
			log.Printf("⚠️  Invalid SEASON %q — using default %d", v, cfg.Season)
		}
	}
	if v := os.Getenv("TRIBE_IMMUNITY_POINTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TribeImmunityPoints = n
		}
	}
	if v := os.Getenv("VOTE_OUT_POINTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.VoteOutPoints = n
		}
	}
	return cfg
}

type ScoreService struct {
	DB     *gorm.DB
	Config ScoreConfig
}

func NewScoreService(db *gorm.DB, cfg ScoreConfig) *ScoreService {
	return &ScoreService{DB: db, Config: cfg}
}

// Reconcile applies one resolved episode's outcome to every user's season
// ledger, exactly once. The whole body runs in a single transaction: the
// processed marker is claimed up front with ON CONFLICT DO NOTHING, so two
// concurrent calls for the same episode cannot both score it, and a failed
// run rolls the claim back and stays retriable.
func (s *ScoreService) Reconcile(episodeID string) error {
	var episode models.Episode
	if err := s.DB.Where("id = ?", episodeID).First(&episode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEpisodeNotFound
		}
		return fmt.Errorf("failed to load episode %s: %w", episodeID, err)
	}
	if episode.Season != s.Config.Season {
		return ErrWrongSeason
	}
	if !episode.Resolved() {
		return ErrNotResolved
	}
	votedOutID := *episode.VotedOutContestantID

	return s.DB.Transaction(func(tx *gorm.DB) error {
		claim := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.EpisodeProcessed{EpisodeID: episode.ID})
		if claim.Error != nil {
			return fmt.Errorf("failed to claim episode %s: %w", episode.ID, claim.Error)
		}
		if claim.RowsAffected == 0 {
			// Already processed — idempotent no-op, not an error.
			log.Printf("➡️  Episode %d already processed, skipping", episode.EpisodeNumber)
			return nil
		}

		if err := s.applySurvival(tx, votedOutID); err != nil {
			return err
		}
		if episode.WinningTribeID != nil {
			if err := s.applyTribeImmunity(tx, episode.ID, *episode.WinningTribeID); err != nil {
				return err
			}
		}
		if err := s.applyVoteOutGuesses(tx, episode.ID, votedOutID); err != nil {
			return err
		}

		log.Printf("✅ Scored episode %d (season %d)", episode.EpisodeNumber, episode.Season)
		return nil
	})
}

// applySurvival walks every active winner pick in the season: +1 for a pick
// that stayed in, -1 and a forced repick (pick nulled out) for a pick that
// went home.
func (s *ScoreService) applySurvival(tx *gorm.DB, votedOutID string) error {
	var picks []models.WinnerPick
	if err := tx.Where("season = ? AND contestant_id IS NOT NULL", s.Config.Season).
		Find(&picks).Error; err != nil {
		return fmt.Errorf("failed to load winner picks: %w", err)
	}

	for _, pick := range picks {
		score, err := s.ensureScoreRow(tx, pick.UserID)
		if err != nil {
			return err
		}

		if *pick.ContestantID == votedOutID {
			delta := -1
			score.SurvivalPoints--
			score.WeeksSurvived = 0
			score.EliminationsHit++
			score.LastWeekDelta = &delta

			// Forced repick: no survival scoring for this user until they
			// choose a new winner.
			if err := tx.Model(&models.WinnerPick{}).
				Where("user_id = ? AND season = ?", pick.UserID, s.Config.Season).
				Update("contestant_id", nil).Error; err != nil {
				return fmt.Errorf("failed to clear winner pick for %s: %w", pick.UserID, err)
			}
		} else {
			delta := 1
			score.SurvivalPoints++
			score.WeeksSurvived++
			score.LastWeekDelta = &delta
		}

		score.RecomputeTotal()
		if err := tx.Save(score).Error; err != nil {
			return fmt.Errorf("failed to save score for %s: %w", pick.UserID, err)
		}
	}
	return nil
}

// applyTribeImmunity credits everyone whose tribe pick for this episode
// matched the immunity winner.
func (s *ScoreService) applyTribeImmunity(tx *gorm.DB, episodeID, winningTribeID string) error {
	var picks []models.TribePick
	if err := tx.Where("episode_id = ? AND tribe_id = ?", episodeID, winningTribeID).
		Find(&picks).Error; err != nil {
		return fmt.Errorf("failed to load tribe picks: %w", err)
	}

	for _, pick := range picks {
		score, err := s.ensureScoreRow(tx, pick.UserID)
		if err != nil {
			return err
		}
		score.TribeImmunityPoints += s.Config.TribeImmunityPoints
		score.RecomputeTotal()
		if err := tx.Save(score).Error; err != nil {
			return fmt.Errorf("failed to save score for %s: %w", pick.UserID, err)
		}
	}
	return nil
}

// applyVoteOutGuesses credits everyone who called the boot correctly.
func (s *ScoreService) applyVoteOutGuesses(tx *gorm.DB, episodeID, votedOutID string) error {
	var picks []models.VoteOutPick
	if err := tx.Where("episode_id = ? AND contestant_id = ?", episodeID, votedOutID).
		Find(&picks).Error; err != nil {
		return fmt.Errorf("failed to load vote-out picks: %w", err)
	}

	for _, pick := range picks {
		score, err := s.ensureScoreRow(tx, pick.UserID)
		if err != nil {
			return err
		}
		score.VoteOutPoints += s.Config.VoteOutPoints
		score.RecomputeTotal()
		if err := tx.Save(score).Error; err != nil {
			return fmt.Errorf("failed to save score for %s: %w", pick.UserID, err)
		}
	}
	return nil
}

// ensureScoreRow returns the user's ledger for the active season, creating a
// zeroed row on first scoring contact.
func (s *ScoreService) ensureScoreRow(tx *gorm.DB, userID string) (*models.SeasonScore, error) {
	var score models.SeasonScore
	err := tx.Where("user_id = ? AND season = ?", userID, s.Config.Season).First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		score = models.SeasonScore{UserID: userID, Season: s.Config.Season}
		if err := tx.Create(&score).Error; err != nil {
			return nil, fmt.Errorf("failed to create score row for %s: %w", userID, err)
		}
		return &score, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load score row for %s: %w", userID, err)
	}
	return &score, nil
}

// EpisodeResult is one line of the sweep's operator-facing audit trail.
type EpisodeResult struct {
	EpisodeID     string `json:"episode_id"`
	EpisodeNumber int    `json:"episode_number"`
	OK            bool   `json:"ok"`
	Error         string `json:"error,omitempty"`
}

// ReconcilePending scores every resolved, unprocessed episode in the active
// season, in episode order. One episode failing doesn't abort the sweep.
func (s *ScoreService) ReconcilePending() ([]EpisodeResult, error) {
	var episodes []models.Episode
	err := s.DB.Where("season = ? AND voted_out_contestant_id IS NOT NULL", s.Config.Season).
		Where("id NOT IN (?)", s.DB.Model(&models.EpisodeProcessed{}).Select("episode_id")).
		Order("episode_number ASC").
		Find(&episodes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending episodes: %w", err)
	}

	results := make([]EpisodeResult, 0, len(episodes))
	for _, ep := range episodes {
		res := EpisodeResult{EpisodeID: ep.ID, EpisodeNumber: ep.EpisodeNumber, OK: true}
		if err := s.Reconcile(ep.ID); err != nil {
			res.OK = false
			res.Error = err.Error()
			log.Printf("❌ Sweep: episode %d failed: %v", ep.EpisodeNumber, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// --- Handlers ---

// ProcessEpisode scores a single episode (Admin only).
func (s *ScoreService) ProcessEpisode(c *fiber.Ctx) error {
	episodeID := c.Params("id")

	err := s.Reconcile(episodeID)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"ok": true})
	case errors.Is(err, ErrEpisodeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrWrongSeason), errors.Is(err, ErrNotResolved):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("DB Error processing episode %s: %v", episodeID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// ProcessPending runs the sweep and returns the per-episode audit list
// (Admin only — also invoked by the weekly scheduler).
func (s *ScoreService) ProcessPending(c *fiber.Ctx) error {
	results, err := s.ReconcilePending()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"ok":        true,
		"processed": len(results),
		"results":   results,
	})
}
