package routes

import (
	"github.com/devmatch-hq/devmatch/internal/handlers"
	"github.com/devmatch-hq/devmatch/internal/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(r *gin.Engine, h *handlers.Handlers, auth *middlewares.AuthMiddleware) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", h.Signup)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/logout", auth.RequireAuth(), h.Logout)
		authRoutes.GET("/me", auth.RequireAuth(), h.Me)
	}

	profile := api.Group("/profile")
	{
		profile.GET("", auth.RequireAuth(), h.GetMyProfile)
		profile.POST("", auth.RequireAuth(), h.UpsertProfile)
		profile.GET("/:userId", h.GetProfileByUser)
	}

	projects := api.Group("/projects")
	{
		projects.GET("", h.GetProjects)
		projects.GET("/my-projects", auth.RequireAuth(), h.GetMyProjects)
		projects.GET("/:id", h.GetProject)
		projects.POST("", auth.RequireAuth(), h.CreateProject)
		projects.PUT("/:id", auth.RequireAuth(), h.UpdateProject)
		projects.DELETE("/:id", auth.RequireAuth(), h.DeleteProject)

		projects.POST("/:id/collaborate", auth.RequireAuth(), h.RequestCollaboration)
		projects.GET("/:id/collaboration-requests", auth.RequireAuth(), h.ListCollaborationRequests)
		projects.PATCH("/:id/collaboration-requests/:requestId", auth.RequireAuth(), h.DecideCollaborationRequest)
	}

	hackathons := api.Group("/hackathons")
	{
		hackathons.GET("", h.GetHackathons)
		hackathons.GET("/featured", h.GetFeaturedHackathons)
		hackathons.GET("/organized", auth.RequireAuth(), h.GetOrganizedHackathons)
		hackathons.GET("/registered", auth.RequireAuth(), h.GetRegisteredHackathons)
		hackathons.GET("/:id", h.GetHackathon)
		hackathons.POST("", auth.RequireAuth(), h.CreateHackathon)
		hackathons.PUT("/:id", auth.RequireAuth(), h.UpdateHackathon)
		hackathons.DELETE("/:id", auth.RequireAuth(), h.DeleteHackathon)

		hackathons.POST("/:id/register", auth.RequireAuth(), h.RegisterForHackathon)
		hackathons.GET("/:id/registrations", auth.RequireAuth(), h.ListRegistrations)
		hackathons.PATCH("/:id/registrations/:registrationId", auth.RequireAuth(), h.DecideRegistration)
	}

	api.GET("/search", h.Search)

	admin := api.Group("/admin", auth.RequireAuth())
	{
		admin.GET("/outbox", h.ListOutbox)
		admin.GET("/dlq", h.ListDLQ)
		admin.POST("/dlq/:id/retry", h.RetryDLQEntry)
	}
}
