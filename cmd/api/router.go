package api

import (
	"net/http"

	"crmsync-backend/internal/auth/delivery"
	authUsecase "crmsync-backend/internal/auth/usecase"
	contactDelivery "crmsync-backend/internal/contact/delivery"
	contactUsecase "crmsync-backend/internal/contact/usecase"
	emailDelivery "crmsync-backend/internal/email/delivery"
	emailUsecase "crmsync-backend/internal/email/usecase"
	"crmsync-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	authUc authUsecase.AuthUsecase,
	syncUc emailUsecase.SyncUsecase,
	wipeUc emailUsecase.WipeUsecase,
	contactUc contactUsecase.ContactUsecase,
	cfg *config.Config,
) {
	authHandler := delivery.NewAuthHandler(authUc)
	emailHandler := emailDelivery.NewEmailHandler(syncUc, wipeUc)
	contactHandler := contactDelivery.NewContactHandler(contactUc)

	authed := []gin.HandlerFunc{
		delivery.AuthMiddleware(authUc),
		delivery.MembershipMiddleware(authUc),
	}

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", append(authed, authHandler.Me)...)
		}

		// Organization routes (protected)
		org := api.Group("/organization")
		org.Use(authed...)
		{
			org.GET("/members", authHandler.ListMembers)
			org.PATCH("/members/:id/role", delivery.RequireOwner(), authHandler.UpdateMemberRole)
			org.DELETE("/data", delivery.RequireOwner(), emailHandler.WipeOrganization)
		}

		// Email routes (protected)
		emails := api.Group("/emails")
		emails.Use(authed...)
		{
			emails.GET("", emailHandler.ListEmails)
			emails.GET("/stats", emailHandler.GetSyncStats)
			emails.POST("/sync", emailHandler.SyncOrganization)
		}

		// Sync settings routes (protected, updates restricted to owners)
		settings := api.Group("/settings")
		settings.Use(authed...)
		{
			settings.GET("/sync", emailHandler.GetSettings)
			settings.PUT("/sync", delivery.RequireOwner(), emailHandler.UpdateSettings)
		}

		// Contact routes (protected)
		contacts := api.Group("/contacts")
		contacts.Use(authed...)
		{
			contacts.GET("", contactHandler.ListContacts)
			contacts.POST("/reconcile", contactHandler.Reconcile)
		}

		companies := api.Group("/companies")
		companies.Use(authed...)
		{
			companies.GET("", contactHandler.ListCompanies)
		}
	}
}
