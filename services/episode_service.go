// services/episode_service.go
package services

import (
	"errors"
	"log"
	"time"

	"github.com/Mreoch1/Survivor-Fan-Game/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EpisodeService struct {
	DB     *gorm.DB
	Config ScoreConfig
}

func NewEpisodeService(db *gorm.DB, cfg ScoreConfig) *EpisodeService {
	return &EpisodeService{DB: db, Config: cfg}
}

// CreateEpisode registers an upcoming episode (Admin only).
func (s *EpisodeService) CreateEpisode(c *fiber.Ctx) error {
	var req struct {
		EpisodeNumber int       `json:"episode_number"`
		LockAt        time.Time `json:"lock_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.EpisodeNumber <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "episode_number must be positive"})
	}
	if req.LockAt.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "lock_at is required"})
	}

	var count int64
	s.DB.Model(&models.Episode{}).
		Where("season = ? AND episode_number = ?", s.Config.Season, req.EpisodeNumber).
		Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "episode number already exists for this season"})
	}

	episode := &models.Episode{
		ID:            uuid.NewString(),
		Season:        s.Config.Season,
		EpisodeNumber: req.EpisodeNumber,
		LockAt:        req.LockAt,
	}
	if err := s.DB.Create(episode).Error; err != nil {
		log.Printf("DB Error creating episode: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create episode"})
	}

	return c.Status(fiber.StatusCreated).JSON(episode)
}

// GetAllEpisodes lists the active season's episodes with their processed flag.
func (s *EpisodeService) GetAllEpisodes(c *fiber.Ctx) error {
	var episodes []models.Episode
	if err := s.DB.Where("season = ?", s.Config.Season).
		Order("episode_number ASC").
		Find(&episodes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load episodes"})
	}

	var markers []models.EpisodeProcessed
	if err := s.DB.Find(&markers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load processed markers"})
	}
	processed := make(map[string]bool, len(markers))
	for _, m := range markers {
		processed[m.EpisodeID] = true
	}

	type episodeView struct {
		models.Episode
		Processed bool `json:"processed"`
	}
	views := make([]episodeView, len(episodes))
	for i, ep := range episodes {
		views[i] = episodeView{Episode: ep, Processed: processed[ep.ID]}
	}

	return c.JSON(views)
}

// GetEpisodeByID returns one episode.
func (s *EpisodeService) GetEpisodeByID(c *fiber.Ctx) error {
	var episode models.Episode
	err := s.DB.Where("id = ?", c.Params("id")).First(&episode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Episode not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load episode"})
	}
	return c.JSON(episode)
}

// UpdateEpisode changes schedule fields before air (Admin only). Outcome
// fields go through SetOutcome instead.
func (s *EpisodeService) UpdateEpisode(c *fiber.Ctx) error {
	var episode models.Episode
	err := s.DB.Where("id = ?", c.Params("id")).First(&episode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Episode not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load episode"})
	}

	var req struct {
		EpisodeNumber *int       `json:"episode_number"`
		LockAt        *time.Time `json:"lock_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.EpisodeNumber != nil {
		episode.EpisodeNumber = *req.EpisodeNumber
	}
	if req.LockAt != nil {
		episode.LockAt = *req.LockAt
	}

	if err := s.DB.Save(&episode).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update episode"})
	}
	return c.JSON(episode)
}

// SetOutcome records the episode's result (Admin only): who went home and,
// when there was a tribe immunity challenge, which tribe won it. Also flags
// the contestant as eliminated on the roster so scoring never has to touch
// that table.
func (s *EpisodeService) SetOutcome(c *fiber.Ctx) error {
	var episode models.Episode
	err := s.DB.Where("id = ?", c.Params("id")).First(&episode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Episode not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load episode"})
	}

	var req struct {
		VotedOutContestantID *string `json:"voted_out_contestant_id"`
		WinningTribeID       *string `json:"winning_tribe_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.VotedOutContestantID == nil && req.WinningTribeID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to record"})
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if req.VotedOutContestantID != nil {
			var contestant models.Contestant
			if err := tx.Where("id = ?", *req.VotedOutContestantID).First(&contestant).Error; err != nil {
				return errors.New("unknown contestant")
			}
			episode.VotedOutContestantID = req.VotedOutContestantID

			contestant.EliminatedInEpisode = &episode.EpisodeNumber
			if err := tx.Save(&contestant).Error; err != nil {
				return err
			}
		}
		if req.WinningTribeID != nil {
			var tribe models.Tribe
			if err := tx.Where("id = ?", *req.WinningTribeID).First(&tribe).Error; err != nil {
				return errors.New("unknown tribe")
			}
			episode.WinningTribeID = req.WinningTribeID
		}
		return tx.Save(&episode).Error
	})
	if txErr != nil {
		if txErr.Error() == "unknown contestant" || txErr.Error() == "unknown tribe" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": txErr.Error()})
		}
		log.Printf("DB Error recording outcome for episode %s: %v", episode.ID, txErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record outcome"})
	}

	log.Printf("📺 Outcome recorded for episode %d", episode.EpisodeNumber)
	return c.JSON(episode)
}
