package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/reference"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// BackofficeHandler exposes the write path used by the external verification
// actor: status transitions, email-sent flags and collection overviews.
type BackofficeHandler struct {
	submissionService service.SubmissionService
}

func NewBackofficeHandler(submissionService service.SubmissionService) *BackofficeHandler {
	return &BackofficeHandler{submissionService: submissionService}
}

func (h *BackofficeHandler) RegisterRoutes(router *gin.RouterGroup) {
	internal := router.Group("/api/internal", middleware.RequireBackoffice())
	{
		internal.PUT("/submissions/:reference/status", h.UpdateStatus)
		internal.PUT("/submissions/:reference/email-sent", h.MarkEmailSent)
		internal.GET("/submissions", h.ListSubmissions)
		internal.GET("/statistics", h.Statistics)
	}
}

// UpdateStatus applies a verification verdict to a submission
// @Summary      Update submission status
// @Description  Moves a submission along pending → processing → completed/verified/rejected, stamping the processing timestamps and notifying live tracking subscribers
// @Tags         backoffice
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                       true  "Reference Number"
// @Param        payload    body      service.UpdateStatusRequest  true  "Status Update Payload"
// @Success      200        {object}  response.Response{data=service.AdminSubmission}
// @Failure      404        {object}  response.Response
// @Failure      422        {object}  response.Response
// @Router       /api/internal/submissions/{reference}/status [put]
func (h *BackofficeHandler) UpdateStatus(c *gin.Context) {
	ref := c.Param("reference")
	if !reference.IsValid(ref) {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid reference number format"))
		return
	}

	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	submission, err := h.submissionService.UpdateStatus(c.Request.Context(), ref, req, c.GetString("actor"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, submission))
}

// MarkEmailSent flags the notification email as sent
// @Summary      Mark notification email sent
// @Tags         backoffice
// @Security     BearerAuth
// @Produce      json
// @Param        reference  path      string  true  "Reference Number"
// @Success      200        {object}  response.Response{data=service.AdminSubmission}
// @Failure      404        {object}  response.Response
// @Router       /api/internal/submissions/{reference}/email-sent [put]
func (h *BackofficeHandler) MarkEmailSent(c *gin.Context) {
	ref := c.Param("reference")
	if !reference.IsValid(ref) {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid reference number format"))
		return
	}

	submission, err := h.submissionService.MarkEmailSent(c.Request.Context(), ref, c.GetString("actor"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, submission))
}

// ListSubmissions returns a paginated, filterable collection overview
// @Summary      List submissions
// @Tags         backoffice
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (pending, processing, completed, verified, rejected)"
// @Param        type    query     string  false  "Filter by coupon type"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/internal/submissions [get]
func (h *BackofficeHandler) ListSubmissions(c *gin.Context) {
	params := pagination.Parse(c)

	submissions, total, err := h.submissionService.ListSubmissions(c.Request.Context(), repository.SubmissionListFilter{
		Status: c.Query("status"),
		Type:   c.Query("type"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"submissions": submissions,
		"total":       total,
		"page":        params.Page,
		"limit":       params.Limit,
	}))
}

// Statistics summarizes the collection by status, type and amount
// @Summary      Collection statistics
// @Tags         backoffice
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.StatisticsResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/internal/statistics [get]
func (h *BackofficeHandler) Statistics(c *gin.Context) {
	stats, err := h.submissionService.Statistics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
