package handlers

import (
	"github.com/Mreoch1/Survivor-Fan-Game/middleware"
	"github.com/Mreoch1/Survivor-Fan-Game/services"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes wires every surface. Public routes serve read-only season data;
// everything under /s/ requires the gateway's user context and everything
// under /s/admin additionally requires the admin role.
func SetupRoutes(
	app *fiber.App,
	episodeService *services.EpisodeService,
	pickService *services.PickService,
	scoreService *services.ScoreService,
	rosterService *services.RosterService,
) {
	// 🔓 Public season data
	app.Get("/contestants", rosterService.GetAllContestants)
	app.Get("/contestants/:id", rosterService.GetContestantByID)
	app.Get("/tribes", rosterService.GetAllTribes)
	app.Get("/episodes", episodeService.GetAllEpisodes)
	app.Get("/episodes/:id", episodeService.GetEpisodeByID)
	app.Get("/leaderboard", scoreService.GetLeaderboard)

	// 🔐 Authenticated routes
	secured := app.Group("/s", middleware.UserContextMiddleware())

	// Picks
	secured.Put("/picks/winner", pickService.SetWinnerPick)
	secured.Put("/episodes/:id/picks/tribe", pickService.SetTribePick)
	secured.Put("/episodes/:id/picks/voteout", pickService.SetVoteOutPick)
	secured.Get("/picks/me", pickService.GetMyPicks)
	secured.Get("/score/me", scoreService.GetMyScore)

	// 🔒 Admin-only routes
	admin := secured.Group("/admin", middleware.RequireAdmin())

	// Episode administration
	admin.Post("/episodes", episodeService.CreateEpisode)
	admin.Put("/episodes/:id", episodeService.UpdateEpisode)
	admin.Patch("/episodes/:id/outcome", episodeService.SetOutcome)

	// Scoring triggers
	admin.Post("/episodes/:id/process", scoreService.ProcessEpisode)
	admin.Post("/episodes/process-pending", scoreService.ProcessPending)

	// Roster management
	admin.Post("/tribes", rosterService.CreateTribe)
	admin.Post("/contestants", rosterService.CreateContestant)
	admin.Post("/contestants/:id/photo", rosterService.UploadContestantPhoto)
}
