package services

import (
	"testing"

	"github.com/Mreoch1/Survivor-Fan-Game/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRosterApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewRosterService(db)

	app := fiber.New()
	app.Post("/tribes", svc.CreateTribe)
	app.Get("/tribes", svc.GetAllTribes)
	app.Post("/contestants", svc.CreateContestant)
	app.Get("/contestants", svc.GetAllContestants)
	app.Get("/contestants/:id", svc.GetContestantByID)
	return app, db
}

func TestCreateTribeSlugsID(t *testing.T) {
	app, db := newRosterApp(t)

	resp := doJSON(t, app, "POST", "/tribes", "", `{"name":"vatu","color":"#1c6fb8"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var tribe models.Tribe
	require.NoError(t, db.Where("id = ?", "vatu").First(&tribe).Error)
	assert.Equal(t, "Vatu", tribe.Name)
	assert.Equal(t, "#1c6fb8", tribe.Color)
}

func TestCreateContestantSlugsID(t *testing.T) {
	app, db := newRosterApp(t)
	seedTribe(t, db, "kalo")

	resp := doJSON(t, app, "POST", "/contestants", "",
		`{"name":"Colby Donaldson","tribe_id":"kalo","cast_order":3,"times_played":4,"best_finish":2}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var contestant models.Contestant
	require.NoError(t, db.Where("id = ?", "colby-donaldson").First(&contestant).Error)
	assert.Equal(t, "Colby Donaldson", contestant.Name)
	assert.Equal(t, "kalo", contestant.TribeID)
	assert.Equal(t, 4, contestant.TimesPlayed)
	assert.False(t, contestant.Eliminated())
}

func TestCreateContestantUnknownTribe(t *testing.T) {
	app, _ := newRosterApp(t)
	resp := doJSON(t, app, "POST", "/contestants", "", `{"name":"Nobody Real","tribe_id":"ghost"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateContestantRequiresName(t *testing.T) {
	app, db := newRosterApp(t)
	seedTribe(t, db, "kalo")
	resp := doJSON(t, app, "POST", "/contestants", "", `{"name":"  ","tribe_id":"kalo"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetContestantNotFound(t *testing.T) {
	app, _ := newRosterApp(t)
	resp := doJSON(t, app, "GET", "/contestants/nobody", "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
