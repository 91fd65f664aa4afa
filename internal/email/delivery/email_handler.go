package delivery

import (
	"net/http"
	"strconv"

	authdelivery "crmsync-backend/internal/auth/delivery"
	emaildto "crmsync-backend/internal/email/dto"
	"crmsync-backend/internal/email/repository"
	"crmsync-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	syncUsecase usecase.SyncUsecase
	wipeUsecase usecase.WipeUsecase
}

func NewEmailHandler(syncUsecase usecase.SyncUsecase, wipeUsecase usecase.WipeUsecase) *EmailHandler {
	return &EmailHandler{
		syncUsecase: syncUsecase,
		wipeUsecase: wipeUsecase,
	}
}

func (h *EmailHandler) ListEmails(c *gin.Context) {
	member := authdelivery.CurrentMember(c)

	opts := repository.EmailListOptions{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
		Search: c.Query("search"),
		UserID: c.Query("user_id"),
	}
	if starredStr := c.Query("starred"); starredStr != "" {
		starred := starredStr == "true"
		opts.Starred = &starred
	}

	emails, total, err := h.syncUsecase.ListEmails(member.OrganizationID, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"emails": emails,
		"total":  total,
		"page":   opts.Page,
		"limit":  opts.Limit,
	})
}

func (h *EmailHandler) GetSyncStats(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	member := authdelivery.CurrentMember(c)

	stats, err := h.syncUsecase.GetSyncStats(user.ID, member.OrganizationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SyncOrganization triggers a synchronous organization-wide sync and returns
// the per-user breakdown
func (h *EmailHandler) SyncOrganization(c *gin.Context) {
	member := authdelivery.CurrentMember(c)

	result := h.syncUsecase.SyncOrganizationEmails(c.Request.Context(), member.OrganizationID)
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EmailHandler) GetSettings(c *gin.Context) {
	member := authdelivery.CurrentMember(c)

	settings, err := h.syncUsecase.GetSettings(member.OrganizationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *EmailHandler) UpdateSettings(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	member := authdelivery.CurrentMember(c)

	var req emaildto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.syncUsecase.UpdateSettings(member.OrganizationID, user.ID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// WipeOrganization deletes all synced data of the caller's organization
func (h *EmailHandler) WipeOrganization(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	member := authdelivery.CurrentMember(c)

	result, err := h.wipeUsecase.WipeOrganization(member.OrganizationID, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
