package delivery

import (
	"net/http"
	"strconv"

	authdelivery "crmsync-backend/internal/auth/delivery"
	"crmsync-backend/internal/contact/repository"
	"crmsync-backend/internal/contact/usecase"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUsecase usecase.ContactUsecase
}

func NewContactHandler(contactUsecase usecase.ContactUsecase) *ContactHandler {
	return &ContactHandler{
		contactUsecase: contactUsecase,
	}
}

func (h *ContactHandler) ListContacts(c *gin.Context) {
	member := authdelivery.CurrentMember(c)
	opts := listOptions(c)
	opts.CompanyID = c.Query("company_id")

	contacts, total, err := h.contactUsecase.ListContacts(member.OrganizationID, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"total":    total,
		"page":     opts.Page,
		"limit":    opts.Limit,
	})
}

func (h *ContactHandler) ListCompanies(c *gin.Context) {
	member := authdelivery.CurrentMember(c)
	opts := listOptions(c)

	companies, total, err := h.contactUsecase.ListCompanies(member.OrganizationID, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": companies,
		"total":     total,
		"page":      opts.Page,
		"limit":     opts.Limit,
	})
}

// Reconcile rebuilds the organization's contacts and companies from its
// stored emails
func (h *ContactHandler) Reconcile(c *gin.Context) {
	member := authdelivery.CurrentMember(c)

	result, err := h.contactUsecase.Reconcile(member.OrganizationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func listOptions(c *gin.Context) repository.ListOptions {
	opts := repository.ListOptions{
		Page:      1,
		Limit:     20,
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			opts.Page = parsed
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			opts.Limit = parsed
		}
	}
	return opts
}
