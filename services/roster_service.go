// services/roster_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/Mreoch1/Survivor-Fan-Game/models"
	"github.com/Mreoch1/Survivor-Fan-Game/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type RosterService struct {
	DB *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{DB: db}
}

var titleCaser = cases.Title(language.English)

// CreateTribe registers a tribe (Admin only).
func (s *RosterService) CreateTribe(c *fiber.Ctx) error {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}

	tribe := &models.Tribe{
		ID:    slug.Make(req.Name),
		Name:  titleCaser.String(strings.TrimSpace(req.Name)),
		Color: req.Color,
	}
	if err := s.DB.Create(tribe).Error; err != nil {
		log.Printf("DB Error creating tribe: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create tribe"})
	}
	return c.Status(fiber.StatusCreated).JSON(tribe)
}

// GetAllTribes lists all tribes.
func (s *RosterService) GetAllTribes(c *fiber.Ctx) error {
	var tribes []models.Tribe
	if err := s.DB.Order("name ASC").Find(&tribes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load tribes"})
	}
	return c.JSON(tribes)
}

// CreateContestant registers a cast member (Admin only). The ID is the name
// slug, matching how the cast has always been keyed ("colby-donaldson").
func (s *RosterService) CreateContestant(c *fiber.Ctx) error {
	var req struct {
		Name            string `json:"name"`
		TribeID         string `json:"tribe_id"`
		CastOrder       int    `json:"cast_order"`
		PreviousSeasons string `json:"previous_seasons"`
		Accomplishment  string `json:"accomplishment"`
		TimesPlayed     int    `json:"times_played"`
		BestFinish      int    `json:"best_finish"`
		IsWinner        bool   `json:"is_winner"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || req.TribeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and tribe_id required"})
	}

	var tribe models.Tribe
	if err := s.DB.Where("id = ?", req.TribeID).First(&tribe).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown tribe"})
	}

	contestant := &models.Contestant{
		ID:              slug.Make(name),
		Name:            titleCaser.String(name),
		TribeID:         req.TribeID,
		CastOrder:       req.CastOrder,
		PreviousSeasons: req.PreviousSeasons,
		Accomplishment:  req.Accomplishment,
		TimesPlayed:     req.TimesPlayed,
		BestFinish:      req.BestFinish,
		IsWinner:        req.IsWinner,
	}
	if err := s.DB.Create(contestant).Error; err != nil {
		log.Printf("DB Error creating contestant: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create contestant"})
	}

	return c.Status(fiber.StatusCreated).JSON(contestant)
}

// GetAllContestants lists the cast with tribes and elimination status.
func (s *RosterService) GetAllContestants(c *fiber.Ctx) error {
	var contestants []models.Contestant
	if err := s.DB.Preload("Tribe").Order("cast_order ASC").Find(&contestants).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load contestants"})
	}
	return c.JSON(contestants)
}

// GetContestantByID returns one cast member.
func (s *RosterService) GetContestantByID(c *fiber.Ctx) error {
	var contestant models.Contestant
	err := s.DB.Preload("Tribe").Where("id = ?", c.Params("id")).First(&contestant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contestant not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load contestant"})
	}
	return c.JSON(contestant)
}

// UploadContestantPhoto stores a face-card photo in R2 and saves the CDN URL
// (Admin only).
func (s *RosterService) UploadContestantPhoto(c *fiber.Ctx) error {
	var contestant models.Contestant
	err := s.DB.Where("id = ?", c.Params("id")).First(&contestant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contestant not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load contestant"})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file required"})
	}

	key := fmt.Sprintf("contestants/%s%s", contestant.ID, filepath.Ext(fileHeader.Filename))
	url, err := utils.UploadFileToR2(fileHeader, key)
	if err != nil {
		log.Printf("❌ R2 upload failed for %s: %v", contestant.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload photo"})
	}

	contestant.PhotoURL = url
	if err := s.DB.Save(&contestant).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save photo URL"})
	}

	return c.JSON(fiber.Map{"ok": true, "photo_url": url})
}
