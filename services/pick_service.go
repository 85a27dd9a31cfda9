// services/pick_service.go
package services

import (
	"errors"
	"log"
	"time"

	"github.com/Mreoch1/Survivor-Fan-Game/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PickService struct {
	DB     *gorm.DB
	Config ScoreConfig
}

func NewPickService(db *gorm.DB, cfg ScoreConfig) *PickService {
	return &PickService{DB: db, Config: cfg}
}

// Lock and scope failures for per-episode picks.
var (
	errPicksLocked      = errors.New("picks are locked for this episode")
	errEpisodeOffSeason = errors.New("episode is not in the active season")
)

func userFromCtx(c *fiber.Ctx) (string, bool) {
	userID, _ := c.Locals("user_id").(string)
	return userID, userID != ""
}

// loadUnlockedEpisode fetches an episode, rejecting off-season episodes and
// episodes whose pick window has closed.
func (s *PickService) loadUnlockedEpisode(episodeID string) (*models.Episode, error) {
	var episode models.Episode
	if err := s.DB.Where("id = ?", episodeID).First(&episode).Error; err != nil {
		return nil, err
	}
	if episode.Season != s.Config.Season {
		return nil, errEpisodeOffSeason
	}
	if episode.Locked(time.Now()) {
		return nil, errPicksLocked
	}
	return &episode, nil
}

// episodeError maps loadUnlockedEpisode failures onto a response.
func episodeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Episode not found"})
	case errors.Is(err, errEpisodeOffSeason), errors.Is(err, errPicksLocked):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load episode"})
	}
}

// SetWinnerPick sets or replaces the caller's season winner pick. Eliminated
// contestants can't be picked, which is what makes the forced repick stick.
func (s *PickService) SetWinnerPick(c *fiber.Ctx) error {
	userID, ok := userFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user context"})
	}

	var req struct {
		ContestantID string `json:"contestant_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ContestantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "contestant_id required"})
	}

	var contestant models.Contestant
	if err := s.DB.Where("id = ?", req.ContestantID).First(&contestant).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown contestant"})
	}
	if contestant.Eliminated() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "contestant has been eliminated"})
	}

	pick := models.WinnerPick{
		ID:           uuid.NewString(),
		UserID:       userID,
		Season:       s.Config.Season,
		ContestantID: &req.ContestantID,
	}
	upsertErr := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "season"}},
		DoUpdates: clause.AssignmentColumns([]string{"contestant_id", "updated_at"}),
	}).Create(&pick).Error
	if upsertErr != nil {
		log.Printf("DB Error saving winner pick for %s: %v", userID, upsertErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save pick"})
	}

	return c.JSON(fiber.Map{"ok": true})
}

// SetTribePick sets or replaces the caller's tribe-immunity pick for one
// episode, before that episode's lock time.
func (s *PickService) SetTribePick(c *fiber.Ctx) error {
	userID, ok := userFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user context"})
	}
	episode, err := s.loadUnlockedEpisode(c.Params("id"))
	if err != nil {
		return episodeError(c, err)
	}

	var req struct {
		TribeID string `json:"tribe_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.TribeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tribe_id required"})
	}
	var tribe models.Tribe
	if err := s.DB.Where("id = ?", req.TribeID).First(&tribe).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown tribe"})
	}

	pick := models.TribePick{
		ID:        uuid.NewString(),
		UserID:    userID,
		EpisodeID: episode.ID,
		TribeID:   req.TribeID,
	}
	err = s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "episode_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tribe_id", "updated_at"}),
	}).Create(&pick).Error
	if err != nil {
		log.Printf("DB Error saving tribe pick for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save pick"})
	}

	return c.JSON(fiber.Map{"ok": true})
}

// SetVoteOutPick sets or replaces the caller's boot guess for one episode,
// before that episode's lock time.
func (s *PickService) SetVoteOutPick(c *fiber.Ctx) error {
	userID, ok := userFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user context"})
	}
	episode, err := s.loadUnlockedEpisode(c.Params("id"))
	if err != nil {
		return episodeError(c, err)
	}

	var req struct {
		ContestantID string `json:"contestant_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ContestantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "contestant_id required"})
	}
	var contestant models.Contestant
	if err := s.DB.Where("id = ?", req.ContestantID).First(&contestant).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown contestant"})
	}
	if contestant.Eliminated() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "contestant has already been eliminated"})
	}

	pick := models.VoteOutPick{
		ID:           uuid.NewString(),
		UserID:       userID,
		EpisodeID:    episode.ID,
		ContestantID: req.ContestantID,
	}
	err = s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "episode_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"contestant_id", "updated_at"}),
	}).Create(&pick).Error
	if err != nil {
		log.Printf("DB Error saving vote-out pick for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save pick"})
	}

	return c.JSON(fiber.Map{"ok": true})
}

// GetMyPicks returns the caller's standing winner pick plus all their
// per-episode picks for the active season.
func (s *PickService) GetMyPicks(c *fiber.Ctx) error {
	userID, ok := userFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user context"})
	}

	var winner models.WinnerPick
	var winnerPick *models.WinnerPick
	werr := s.DB.Where("user_id = ? AND season = ?", userID, s.Config.Season).First(&winner).Error
	if werr == nil {
		winnerPick = &winner
	} else if !errors.Is(werr, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load picks"})
	}

	episodeIDs := s.DB.Model(&models.Episode{}).Select("id").Where("season = ?", s.Config.Season)

	var tribePicks []models.TribePick
	if err := s.DB.Where("user_id = ? AND episode_id IN (?)", userID, episodeIDs).
		Find(&tribePicks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load picks"})
	}

	var voteOutPicks []models.VoteOutPick
	if err := s.DB.Where("user_id = ? AND episode_id IN (?)", userID, episodeIDs).
		Find(&voteOutPicks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load picks"})
	}

	return c.JSON(fiber.Map{
		"winner_pick":    winnerPick,
		"tribe_picks":    tribePicks,
		"vote_out_picks": voteOutPicks,
	})
}
