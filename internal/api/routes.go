package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Patch("/timezone", handler.AuthRequired, handler.UpdateTimezone)
	auth.Delete("/account", handler.AuthRequired, handler.DeleteAccount)

	groups := api.Group("/groups", handler.AuthRequired)
	groups.Post("", handler.CreateGroup)
	groups.Get("", handler.ListGroups)
	groups.Post("/join", handler.JoinGroup)
	groups.Get("/:id", handler.GetGroup)
	groups.Post("/:id/members/:userId/approve", handler.ApproveMember)
	groups.Delete("/:id/membership", handler.LeaveGroup)
	groups.Post("/:id/goals", handler.AddGoal)
	groups.Get("/:id/goals", handler.ListGoals)
	groups.Get("/:id/members/:userId/progress", handler.MemberProgress)
	groups.Get("/:id/activity", handler.GroupActivity)

	goals := api.Group("/goals", handler.AuthRequired)
	goals.Patch("/:id", handler.UpdateGoal)
	goals.Post("/:id/archive", handler.ArchiveGoal)
	goals.Post("/:id/progress", handler.LogProgress)
	goals.Get("/:id/progress/current", handler.CurrentPeriodProgress)

	progress := api.Group("/progress", handler.AuthRequired)
	progress.Get("/:id", handler.GetProgressEntry)
	progress.Delete("/:id", handler.DeleteProgress)

	events := api.Group("/events", handler.AuthRequired)
	events.Post("/:id/reactions", handler.AddReaction)
	events.Delete("/:id/reactions", handler.RemoveReaction)
}
