package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/dealdesk/dealdesk-api/internal/middleware"
	"github.com/dealdesk/dealdesk-api/internal/services"
)

type ReportHandler struct {
	exportService *services.ExportService
}

func NewReportHandler(exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{exportService: exportService}
}

// reportParams forwards the supported feed filters to the core API.
func reportParams(c *gin.Context) url.Values {
	params := url.Values{}
	for _, key := range []string{"statusId", "developerId", "projectId", "agentId", "from", "to"} {
		if v := c.Query(key); v != "" {
			params.Set(key, v)
		}
	}
	return params
}

// @Summary Deals Report CSV
// @Description Downloads the deal feed as CSV
// @Tags Reports
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 502 {object} map[string]string
// @Router /reports/deals.csv [get]
func (h *ReportHandler) DealsCSV(c *gin.Context) {
	sess := middleware.GetSession(c)

	data, filename, err := h.exportService.ExportDealsCSV(c.Request.Context(), sess.UpstreamToken, reportParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Deals Report XLSX
// @Description Downloads the deal feed as an Excel workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 502 {object} map[string]string
// @Router /reports/deals.xlsx [get]
func (h *ReportHandler) DealsXLSX(c *gin.Context) {
	sess := middleware.GetSession(c)

	data, filename, err := h.exportService.ExportDealsXLSX(c.Request.Context(), sess.UpstreamToken, reportParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
