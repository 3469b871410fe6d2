package handler

import (
	"errors"
	"net/http"
	"strconv"

	"taxreport/internal/ingest"
	"taxreport/internal/middleware"
	"taxreport/internal/pipeline"
	"taxreport/internal/service"
	"taxreport/pkg/pagination"
	"taxreport/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.POST("/reports", h.GenerateReport)
		api.GET("/reports/latest", h.GetLatest)
		api.GET("/reports/latest/download", h.DownloadLatest)
		api.POST("/reports/latest/email", h.EmailLatest)
		api.GET("/reports/runs", h.ListRuns)
		api.POST("/files/preview", h.PreviewFile)
	}
}

// GenerateReport runs the tax-report pipeline over an uploaded export file
// @Summary      Generate tax report
// @Description  Uploads a CSV/XLSX order export and produces the tax report with allocated invoice numbers
// @Tags         reports
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file          formData  file    true   "Order export (.csv or .xlsx)"
// @Param        invoice_seed  formData  string  true   "First invoice code, e.g. TINV251100001"
// @Param        header_row    formData  int     false  "Zero-based header row index"
// @Success      200  {object}  response.Response{data=service.GenerateResult}
// @Failure      400  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/reports [post]
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing upload: "+err.Error()))
		return
	}

	seed := c.PostForm("invoice_seed")
	if seed == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invoice_seed is required"))
		return
	}

	headerRow := -1 // fall back to configured default
	if raw := c.PostForm("header_row"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 0 {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "header_row must be a non-negative integer"))
			return
		}
		headerRow = n
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to open upload: "+err.Error()))
		return
	}
	defer src.Close()

	result, err := h.reportService.Generate(c.Request.Context(), src, service.GenerateOptions{
		Seed:       seed,
		SourceName: fileHeader.Filename,
		HeaderRow:  headerRow,
	})
	if err != nil {
		var schemaErr *ingest.SchemaError
		switch {
		case errors.As(err, &schemaErr):
			c.JSON(http.StatusUnprocessableEntity, response.ErrorWithDetails(
				http.StatusUnprocessableEntity, schemaErr.Error(), gin.H{"missing_columns": schemaErr.Missing}))
		case errors.Is(err, pipeline.ErrInvalidSeed):
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		default:
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GetLatest returns the summary and preview of the last generated report
// @Summary      Latest report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.GenerateResult}
// @Failure      404  {object}  response.Response
// @Router       /api/reports/latest [get]
func (h *ReportHandler) GetLatest(c *gin.Context) {
	result, err := h.reportService.Latest()
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DownloadLatest streams the last generated report as an XLSX attachment
// @Summary      Download latest report
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      404  {object}  response.Response
// @Router       /api/reports/latest/download [get]
func (h *ReportHandler) DownloadLatest(c *gin.Context) {
	filename, data, err := h.reportService.Download()
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// EmailLatest sends the last generated report as an email attachment
// @Summary      Email latest report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.EmailReportRequest  true  "Recipient and optional subject/body"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /api/reports/latest/email [post]
func (h *ReportHandler) EmailLatest(c *gin.Context) {
	var req service.EmailReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.reportService.Email(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrNoReport) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		// Transport failure at the mail boundary
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "report sent to " + req.To}))
}

// PreviewFile echoes back the raw decoded table without running the pipeline
// @Summary      Preview uploaded file
// @Description  Decodes the upload and returns headers plus the first rows, for checking the header-row setting
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file        formData  file  true   "Order export (.csv or .xlsx)"
// @Param        header_row  formData  int   false  "Zero-based header row index"
// @Success      200  {object}  response.Response{data=service.RawPreview}
// @Failure      400  {object}  response.Response
// @Router       /api/files/preview [post]
func (h *ReportHandler) PreviewFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing upload: "+err.Error()))
		return
	}

	headerRow := -1
	if raw := c.PostForm("header_row"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 0 {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "header_row must be a non-negative integer"))
			return
		}
		headerRow = n
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to open upload: "+err.Error()))
		return
	}
	defer src.Close()

	preview, err := h.reportService.Preview(src, fileHeader.Filename, headerRow)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, preview))
}

// ListRuns returns the paginated report-run history
// @Summary      Report run history
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=[]service.ReportRunResponse}
// @Failure      500    {object}  response.Response
// @Router       /api/reports/runs [get]
func (h *ReportHandler) ListRuns(c *gin.Context) {
	params := pagination.Parse(c)

	runs, total, err := h.reportService.ListRuns(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"runs":  runs,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}
