package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealdesk/dealdesk-api/internal/middleware"
	"github.com/dealdesk/dealdesk-api/internal/models"
	"github.com/dealdesk/dealdesk-api/internal/services"
)

type DealHandler struct {
	dealService   *services.DealService
	exportService *services.ExportService
}

func NewDealHandler(dealService *services.DealService, exportService *services.ExportService) *DealHandler {
	return &DealHandler{dealService: dealService, exportService: exportService}
}

type CreateDraftRequest struct {
	DealID *string `json:"dealId"`
}

// @Summary Create Draft
// @Description Starts a deal authoring session; pass dealId to edit an existing deal
// @Tags Deals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDraftRequest false "Draft options"
// @Success 201 {object} models.DraftResponse
// @Failure 403 {object} map[string]string
// @Router /deals/drafts [post]
func (h *DealHandler) Create(c *gin.Context) {
	var req CreateDraftRequest
	if c.Request.ContentLength > 0 {
		if err := BindNestedOrFlat(c, "deal", &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	sess := middleware.GetSession(c)
	draft, err := h.dealService.CreateDraft(c.Request.Context(), sess, req.DealID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := draft.ToResponse()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary List Drafts
// @Description Lists the current user's drafts
// @Tags Deals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /deals/drafts [get]
func (h *DealHandler) Index(c *gin.Context) {
	sess := middleware.GetSession(c)
	drafts, err := h.dealService.ListDrafts(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]*models.DraftResponse, 0, len(drafts))
	for i := range drafts {
		resp, err := drafts[i].ToResponse()
		if err != nil {
			respondError(c, err)
			return
		}
		responses = append(responses, resp)
	}
	c.JSON(http.StatusOK, gin.H{"drafts": responses})
}

// @Summary Show Draft
// @Description Returns one draft with its current form state
// @Tags Deals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} models.DraftResponse
// @Failure 404 {object} map[string]string
// @Router /deals/drafts/{id} [get]
func (h *DealHandler) Show(c *gin.Context) {
	sess := middleware.GetSession(c)
	draft, err := h.dealService.GetDraft(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := draft.ToResponse()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update Draft Fields
// @Description Writes form fields into the draft; values are sanitized and defaults derived
// @Tags Deals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body map[string]string true "Field values by JSON name"
// @Success 200 {object} models.DraftResponse
// @Failure 422 {object} map[string]string
// @Router /deals/drafts/{id} [patch]
func (h *DealHandler) Update(c *gin.Context) {
	var fields map[string]string
	if err := BindNestedOrFlat(c, "deal", &fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess := middleware.GetSession(c)
	draft, warnings, err := h.dealService.UpdateFields(c.Request.Context(), sess, c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := draft.ToResponse()
	if err != nil {
		respondError(c, err)
		return
	}
	if len(warnings) > 0 {
		c.JSON(http.StatusOK, gin.H{"draft": resp, "warnings": warnings})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": resp})
}

// @Summary Preview Draft
// @Description Validates a new deal and opens the confirmation gate
// @Tags Deals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} dealform.Summary
// @Failure 422 {object} map[string]string
// @Router /deals/drafts/{id}/preview [post]
func (h *DealHandler) Preview(c *gin.Context) {
	sess := middleware.GetSession(c)
	summary, err := h.dealService.Preview(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Back To Edit
// @Description Leaves the confirmation gate, keeping the form editable
// @Tags Deals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} models.DraftResponse
// @Failure 409 {object} map[string]string
// @Router /deals/drafts/{id}/back [post]
func (h *DealHandler) Back(c *gin.Context) {
	sess := middleware.GetSession(c)
	draft, err := h.dealService.Back(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := draft.ToResponse()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Confirm Submission
// @Description Dispatches a previewed new deal to the core API
// @Tags Deals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} services.SubmitResult
// @Failure 502 {object} map[string]string
// @Router /deals/drafts/{id}/confirm [post]
func (h *DealHandler) Confirm(c *gin.Context) {
	sess := middleware.GetSession(c)
	result, err := h.dealService.Confirm(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Submit Edit
// @Description Dispatches an edit draft to the core API (no confirmation gate)
// @Tags Deals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} services.SubmitResult
// @Failure 403 {object} map[string]string
// @Router /deals/drafts/{id}/submit [post]
func (h *DealHandler) Submit(c *gin.Context) {
	sess := middleware.GetSession(c)
	result, err := h.dealService.Submit(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Discard Draft
// @Description Deletes a draft without submitting
// @Tags Deals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /deals/drafts/{id} [delete]
func (h *DealHandler) Discard(c *gin.Context) {
	sess := middleware.GetSession(c)
	if err := h.dealService.Discard(c.Request.Context(), sess, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "draft discarded"})
}

// @Summary Download Draft Summary
// @Description Renders the draft summary as a printable PDF
// @Tags Deals
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /deals/drafts/{id}/summary.pdf [get]
func (h *DealHandler) SummaryPDF(c *gin.Context) {
	sess := middleware.GetSession(c)
	summary, err := h.dealService.Summary(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	data, filename, err := h.exportService.ExportSummaryPDF(summary)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
