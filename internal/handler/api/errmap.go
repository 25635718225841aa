package api

import (
	"errors"
	"net/http"

	"pinecove/internal/handler/httperr"
	"pinecove/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// respondError maps the engine error taxonomy onto HTTP. Conflict and
// inconsistency responses carry generic messages; internal detail stays in the
// logs. Payment failures surface the processor's message verbatim so the guest
// can act on it.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, errs.ErrResourceNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Resource not found", nil)
	case errors.Is(err, errs.ErrIncentiveNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Referral code not found", nil)
	case errors.Is(err, errs.ErrNoOp):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Modification changes nothing", nil)
	case errors.Is(err, errs.ErrInvalidInput):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
	case errors.Is(err, errs.ErrConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Requested dates are no longer available", nil)
	case errors.Is(err, errs.ErrPaymentFailed):
		httperr.AbortWithError(c, http.StatusPaymentRequired, err, err.Error(), nil)
	case errors.Is(err, errs.ErrUpstreamUnavailable):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Booking service temporarily unavailable, please retry", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
