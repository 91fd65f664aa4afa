package api

import (
	authUsecase "crmsync-backend/internal/auth/usecase"
	contactUsecase "crmsync-backend/internal/contact/usecase"
	emailUsecase "crmsync-backend/internal/email/usecase"
	"crmsync-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase    authUsecase.AuthUsecase
	syncUsecase    emailUsecase.SyncUsecase
	wipeUsecase    emailUsecase.WipeUsecase
	contactUsecase contactUsecase.ContactUsecase
	config         *config.Config
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	syncUc emailUsecase.SyncUsecase,
	wipeUc emailUsecase.WipeUsecase,
	contactUc contactUsecase.ContactUsecase,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authUsecase:    authUc,
		syncUsecase:    syncUc,
		wipeUsecase:    wipeUc,
		contactUsecase: contactUc,
		config:         cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.syncUsecase, h.wipeUsecase, h.contactUsecase, h.config)

	return r.Run(addr)
}
