package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealdesk/dealdesk-api/internal/middleware"
	"github.com/dealdesk/dealdesk-api/internal/refdata"
	"github.com/dealdesk/dealdesk-api/internal/services"
)

type FilterHandler struct {
	filterService *services.FilterService
}

func NewFilterHandler(filterService *services.FilterService) *FilterHandler {
	return &FilterHandler{filterService: filterService}
}

// @Summary List Filters
// @Description Returns every lookup category used by the deal form
// @Tags Filters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} map[string]string
// @Router /filters [get]
func (h *FilterHandler) Index(c *gin.Context) {
	sess := middleware.GetSession(c)

	set, err := h.filterService.Snapshot(c.Request.Context(), sess.UpstreamToken)
	if err != nil {
		respondError(c, err)
		return
	}

	filters := make(map[string][]refdata.Option, len(refdata.Categories))
	for _, category := range refdata.Categories {
		filters[category] = set.Options(category)
	}

	c.JSON(http.StatusOK, gin.H{"filters": filters})
}

// @Summary Show Filter Category
// @Description Returns the options of one lookup category
// @Tags Filters
// @Produce json
// @Security BearerAuth
// @Param category path string true "Category"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /filters/{category} [get]
func (h *FilterHandler) Show(c *gin.Context) {
	category := c.Param("category")

	known := false
	for _, cat := range refdata.Categories {
		if cat == category {
			known = true
			break
		}
	}
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown filter category"})
		return
	}

	sess := middleware.GetSession(c)
	set, err := h.filterService.Snapshot(c.Request.Context(), sess.UpstreamToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category, "options": set.Options(category)})
}

// @Summary Refetch Filters
// @Description Reloads every lookup category from the core API
// @Tags Filters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /filters/refetch [post]
func (h *FilterHandler) Refetch(c *gin.Context) {
	sess := middleware.GetSession(c)

	if _, err := h.filterService.Refetch(c.Request.Context(), sess.UpstreamToken); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "filters reloaded"})
}
