package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Mreoch1/Survivor-Fan-Game/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newPickApp wires the pick handlers into a bare Fiber app with a stub
// user-context middleware driven by the X-User-ID header.
func newPickApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewPickService(db, ScoreConfig{Season: testSeason, TribeImmunityPoints: 1, VoteOutPoints: 2})

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID := c.Get("X-User-ID"); userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	app.Put("/picks/winner", svc.SetWinnerPick)
	app.Put("/episodes/:id/picks/tribe", svc.SetTribePick)
	app.Put("/episodes/:id/picks/voteout", svc.SetVoteOutPick)
	app.Get("/picks/me", svc.GetMyPicks)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, userID, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func seedOpenEpisode(t *testing.T, db *gorm.DB, number int) *models.Episode {
	t.Helper()
	ep := &models.Episode{
		ID:            uuid.NewString(),
		Season:        testSeason,
		EpisodeNumber: number,
		LockAt:        time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(ep).Error)
	return ep
}

func TestSetWinnerPickRequiresUser(t *testing.T) {
	app, _ := newPickApp(t)
	resp := doJSON(t, app, "PUT", "/picks/winner", "", `{"contestant_id":"colby-donaldson"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSetWinnerPickUpserts(t *testing.T) {
	app, db := newPickApp(t)
	seedTribe(t, db, "kalo")
	seedContestant(t, db, "colby-donaldson", "kalo")
	seedContestant(t, db, "cirie-fields", "kalo")

	resp := doJSON(t, app, "PUT", "/picks/winner", "user-a", `{"contestant_id":"colby-donaldson"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Picking again replaces the row instead of adding one.
	resp = doJSON(t, app, "PUT", "/picks/winner", "user-a", `{"contestant_id":"cirie-fields"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var picks []models.WinnerPick
	require.NoError(t, db.Where("user_id = ?", "user-a").Find(&picks).Error)
	require.Len(t, picks, 1)
	require.NotNil(t, picks[0].ContestantID)
	assert.Equal(t, "cirie-fields", *picks[0].ContestantID)
}

func TestSetWinnerPickRejectsEliminated(t *testing.T) {
	app, db := newPickApp(t)
	seedTribe(t, db, "kalo")
	gone := 3
	require.NoError(t, db.Create(&models.Contestant{
		ID: "jenna-lewis", Name: "jenna-lewis", TribeID: "kalo", EliminatedInEpisode: &gone,
	}).Error)

	resp := doJSON(t, app, "PUT", "/picks/winner", "user-a", `{"contestant_id":"jenna-lewis"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var count int64
	db.Model(&models.WinnerPick{}).Count(&count)
	assert.Zero(t, count)
}

func TestSetWinnerPickUnknownContestant(t *testing.T) {
	app, _ := newPickApp(t)
	resp := doJSON(t, app, "PUT", "/picks/winner", "user-a", `{"contestant_id":"nobody"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSetTribePickUpserts(t *testing.T) {
	app, db := newPickApp(t)
	seedTribe(t, db, "cila")
	seedTribe(t, db, "vatu")
	ep := seedOpenEpisode(t, db, 1)

	resp := doJSON(t, app, "PUT", "/episodes/"+ep.ID+"/picks/tribe", "user-a", `{"tribe_id":"cila"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "PUT", "/episodes/"+ep.ID+"/picks/tribe", "user-a", `{"tribe_id":"vatu"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var picks []models.TribePick
	require.NoError(t, db.Where("user_id = ?", "user-a").Find(&picks).Error)
	require.Len(t, picks, 1)
	assert.Equal(t, "vatu", picks[0].TribeID)
}

func TestSetTribePickUnknownTribe(t *testing.T) {
	app, db := newPickApp(t)
	ep := seedOpenEpisode(t, db, 1)
	resp := doJSON(t, app, "PUT", "/episodes/"+ep.ID+"/picks/tribe", "user-a", `{"tribe_id":"ghost"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSetVoteOutPickLockedEpisode(t *testing.T) {
	app, db := newPickApp(t)
	seedTribe(t, db, "kalo")
	seedContestant(t, db, "colby-donaldson", "kalo")
	ep := &models.Episode{
		ID:            uuid.NewString(),
		Season:        testSeason,
		EpisodeNumber: 1,
		LockAt:        time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Create(ep).Error)

	resp := doJSON(t, app, "PUT", "/episodes/"+ep.ID+"/picks/voteout", "user-a", `{"contestant_id":"colby-donaldson"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var count int64
	db.Model(&models.VoteOutPick{}).Count(&count)
	assert.Zero(t, count)
}

func TestSetVoteOutPickUnknownEpisode(t *testing.T) {
	app, _ := newPickApp(t)
	resp := doJSON(t, app, "PUT", "/episodes/"+uuid.NewString()+"/picks/voteout", "user-a", `{"contestant_id":"colby-donaldson"}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSetVoteOutPickOffSeasonEpisode(t *testing.T) {
	app, db := newPickApp(t)
	seedTribe(t, db, "kalo")
	seedContestant(t, db, "colby-donaldson", "kalo")
	ep := &models.Episode{
		ID:            uuid.NewString(),
		Season:        testSeason - 1,
		EpisodeNumber: 1,
		LockAt:        time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(ep).Error)

	resp := doJSON(t, app, "PUT", "/episodes/"+ep.ID+"/picks/voteout", "user-a", `{"contestant_id":"colby-donaldson"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSetVoteOutPickUpserts(t *testing.T) {
	app, db := newPickApp(t)
	seedTribe(t, db, "kalo")
	seedContestant(t, db, "colby-donaldson", "kalo")
	seedContestant(t, db, "cirie-fields", "kalo")
	ep := seedOpenEpisode(t, db, 1)

	resp := doJSON(t, app, "PUT", "/episodes/"+ep.ID+"/picks/voteout", "user-a", `{"contestant_id":"colby-donaldson"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "PUT", "/episodes/"+ep.ID+"/picks/voteout", "user-a", `{"contestant_id":"cirie-fields"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var picks []models.VoteOutPick
	require.NoError(t, db.Where("user_id = ?", "user-a").Find(&picks).Error)
	require.Len(t, picks, 1)
	assert.Equal(t, "cirie-fields", picks[0].ContestantID)
}

func TestGetMyPicksEmpty(t *testing.T) {
	app, _ := newPickApp(t)
	resp := doJSON(t, app, "GET", "/picks/me", "user-a", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
