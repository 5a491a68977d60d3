package handler

import (
	"net/http"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	submissionService service.SubmissionService
}

func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

func (h *SubmissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	submissions := router.Group("/api/submissions")
	{
		submissions.POST("", h.SubmitCoupons)
	}
}

// SubmitCoupons accepts a filled attestation form and persists it
// @Summary      Submit coupons for attestation
// @Description  Validates the form, builds the submission record and stores it under a freshly generated reference number
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitCouponsRequest  true  "Submission Payload"
// @Success      201      {object}  response.Response{data=service.SubmitCouponsResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/submissions [post]
func (h *SubmissionHandler) SubmitCoupons(c *gin.Context) {
	var req service.SubmitCouponsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.submissionService.SubmitCoupons(c.Request.Context(), req, c.Request.UserAgent())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}
