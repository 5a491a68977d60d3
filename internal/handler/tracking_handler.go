package handler

import (
	"net/http"
	"strings"

	"backend/internal/reference"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TrackingHandler struct {
	submissionService service.SubmissionService
}

func NewTrackingHandler(submissionService service.SubmissionService) *TrackingHandler {
	return &TrackingHandler{submissionService: submissionService}
}

func (h *TrackingHandler) RegisterRoutes(router *gin.RouterGroup) {
	tracking := router.Group("/api/tracking")
	{
		tracking.POST("/lookup", h.Lookup)
		tracking.GET("/:reference", h.GetTracking)
		tracking.GET("/:reference/attestation", h.DownloadAttestation)
	}
}

type lookupRequest struct {
	Reference string `json:"reference"`
}

type lookupResponse struct {
	Reference    string `json:"reference"`
	TrackingPath string `json:"trackingPath"`
}

// Lookup validates a user-typed reference number shape
// @Summary      Validate a reference number
// @Description  Trims and checks a user-typed reference against the generation pattern. Shape check only — existence is resolved by the tracking read itself.
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Param        payload  body      lookupRequest  true  "Reference Lookup Payload"
// @Success      200      {object}  response.Response{data=lookupResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/tracking/lookup [post]
func (h *TrackingHandler) Lookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	ref := strings.TrimSpace(req.Reference)
	if ref == "" {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Please enter a reference number"))
		return
	}
	if !reference.IsValid(ref) {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid reference number format"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, lookupResponse{
		Reference:    ref,
		TrackingPath: "/tracking/" + ref,
	}))
}

// GetTracking returns the tracking view payload for a submission
// @Summary      Track a submission
// @Description  Returns the public tracking projection: display status, timeline, coupon codes honoring the hide-codes flag
// @Tags         tracking
// @Produce      json
// @Param        reference  path      string  true  "Reference Number"
// @Success      200        {object}  response.Response{data=service.TrackingResponse}
// @Failure      404        {object}  response.Response
// @Failure      422        {object}  response.Response
// @Router       /api/tracking/{reference} [get]
func (h *TrackingHandler) GetTracking(c *gin.Context) {
	ref := c.Param("reference")
	if !reference.IsValid(ref) {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid reference number format"))
		return
	}

	tracking, err := h.submissionService.GetTracking(c.Request.Context(), ref)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tracking))
}

// DownloadAttestation streams the attestation PDF for a decided submission
// @Summary      Download the attestation PDF
// @Description  Available once the request has been verified or rejected; codes are masked in the document
// @Tags         tracking
// @Produce      application/pdf
// @Param        reference  path  string  true  "Reference Number"
// @Success      200        {file}    file
// @Failure      404        {object}  response.Response
// @Failure      409        {object}  response.Response
// @Router       /api/tracking/{reference}/attestation [get]
func (h *TrackingHandler) DownloadAttestation(c *gin.Context) {
	ref := c.Param("reference")
	if !reference.IsValid(ref) {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid reference number format"))
		return
	}

	data, filename, err := h.submissionService.Attestation(c.Request.Context(), ref)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
