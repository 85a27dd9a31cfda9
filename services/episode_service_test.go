package services

import (
	"testing"
	"time"

	"github.com/Mreoch1/Survivor-Fan-Game/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEpisodeApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewEpisodeService(db, ScoreConfig{Season: testSeason, TribeImmunityPoints: 1, VoteOutPoints: 2})

	app := fiber.New()
	app.Post("/episodes", svc.CreateEpisode)
	app.Get("/episodes", svc.GetAllEpisodes)
	app.Get("/episodes/:id", svc.GetEpisodeByID)
	app.Put("/episodes/:id", svc.UpdateEpisode)
	app.Patch("/episodes/:id/outcome", svc.SetOutcome)
	return app, db
}

func TestCreateEpisode(t *testing.T) {
	app, db := newEpisodeApp(t)

	resp := doJSON(t, app, "POST", "/episodes", "", `{"episode_number":1,"lock_at":"2026-03-04T01:00:00Z"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var ep models.Episode
	require.NoError(t, db.Where("season = ? AND episode_number = ?", testSeason, 1).First(&ep).Error)
	assert.Equal(t, testSeason, ep.Season)
	assert.Nil(t, ep.VotedOutContestantID)
}

func TestCreateEpisodeDuplicateNumber(t *testing.T) {
	app, _ := newEpisodeApp(t)

	resp := doJSON(t, app, "POST", "/episodes", "", `{"episode_number":1,"lock_at":"2026-03-04T01:00:00Z"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = doJSON(t, app, "POST", "/episodes", "", `{"episode_number":1,"lock_at":"2026-03-11T01:00:00Z"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCreateEpisodeRejectsBadInput(t *testing.T) {
	app, _ := newEpisodeApp(t)

	resp := doJSON(t, app, "POST", "/episodes", "", `{"episode_number":0,"lock_at":"2026-03-04T01:00:00Z"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp = doJSON(t, app, "POST", "/episodes", "", `{"episode_number":2}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetEpisodeNotFound(t *testing.T) {
	app, _ := newEpisodeApp(t)
	resp := doJSON(t, app, "GET", "/episodes/nope", "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateEpisodeSchedule(t *testing.T) {
	app, db := newEpisodeApp(t)
	ep := seedOpenEpisode(t, db, 4)

	resp := doJSON(t, app, "PUT", "/episodes/"+ep.ID, "", `{"lock_at":"2026-05-06T01:00:00Z"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Episode
	require.NoError(t, db.Where("id = ?", ep.ID).First(&updated).Error)
	assert.Equal(t, 4, updated.EpisodeNumber)
	assert.Equal(t, time.Date(2026, 5, 6, 1, 0, 0, 0, time.UTC), updated.LockAt.UTC())
}

func TestSetOutcomeMarksElimination(t *testing.T) {
	app, db := newEpisodeApp(t)
	seedTribe(t, db, "vatu")
	seedContestant(t, db, "colby-donaldson", "vatu")
	ep := seedOpenEpisode(t, db, 2)

	resp := doJSON(t, app, "PATCH", "/episodes/"+ep.ID+"/outcome", "",
		`{"voted_out_contestant_id":"colby-donaldson","winning_tribe_id":"vatu"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Episode
	require.NoError(t, db.Where("id = ?", ep.ID).First(&updated).Error)
	require.NotNil(t, updated.VotedOutContestantID)
	assert.Equal(t, "colby-donaldson", *updated.VotedOutContestantID)
	require.NotNil(t, updated.WinningTribeID)
	assert.Equal(t, "vatu", *updated.WinningTribeID)
	assert.True(t, updated.Resolved())

	var contestant models.Contestant
	require.NoError(t, db.Where("id = ?", "colby-donaldson").First(&contestant).Error)
	require.NotNil(t, contestant.EliminatedInEpisode)
	assert.Equal(t, 2, *contestant.EliminatedInEpisode)
	assert.True(t, contestant.Eliminated())
}

func TestSetOutcomeUnknownContestant(t *testing.T) {
	app, db := newEpisodeApp(t)
	ep := seedOpenEpisode(t, db, 2)

	resp := doJSON(t, app, "PATCH", "/episodes/"+ep.ID+"/outcome", "",
		`{"voted_out_contestant_id":"nobody"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var updated models.Episode
	require.NoError(t, db.Where("id = ?", ep.ID).First(&updated).Error)
	assert.Nil(t, updated.VotedOutContestantID)
}

func TestSetOutcomeEmptyBody(t *testing.T) {
	app, db := newEpisodeApp(t)
	ep := seedOpenEpisode(t, db, 2)

	resp := doJSON(t, app, "PATCH", "/episodes/"+ep.ID+"/outcome", "", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
