package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dealdesk/dealdesk-api/internal/repository"
	"github.com/dealdesk/dealdesk-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Entries
// @Description Lists workflow audit entries, newest first (admin only)
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param per_page query int false "Per page"
// @Param action query string false "Filter by action"
// @Param user_id query string false "Filter by user"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Router /audit [get]
func (h *AuditHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		query.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil && perPage > 0 {
		query.PerPage = perPage
	}
	if action := c.Query("action"); action != "" {
		query.Filters["action"] = action
	}
	if userID := c.Query("user_id"); userID != "" {
		query.Filters["user_id"] = userID
	}

	entries, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":  entries,
		"total":    total,
		"page":     query.Page,
		"per_page": query.PerPage,
	})
}
