package handler

import (
	"errors"
	"net/http"

	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError converts a service failure into the response envelope. The
// not-found outcome gets its own status so clients can render it as a
// dedicated screen instead of a transport error; everything unrecognized
// collapses to a generic message rather than leaking internals.
func writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity,
			response.ValidationError(http.StatusUnprocessableEntity, "Validation failed", verr.Fields))
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound,
			response.Error(http.StatusNotFound, "No request found with this reference number"))
	case errors.Is(err, repository.ErrDuplicateReference):
		c.JSON(http.StatusConflict,
			response.Error(http.StatusConflict, "A request with this reference number already exists"))
	case errors.Is(err, service.ErrAttestationNotReady):
		c.JSON(http.StatusConflict,
			response.Error(http.StatusConflict, "The attestation is not available until the request has been decided"))
	default:
		c.JSON(http.StatusInternalServerError,
			response.Error(http.StatusInternalServerError, "Service temporarily unavailable. Please try again."))
	}
}
