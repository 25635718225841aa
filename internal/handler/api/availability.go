package api

import (
	"net/http"

	reqdto "pinecove/internal/handler/dto/request"
	resdto "pinecove/internal/handler/dto/response"
	"pinecove/internal/handler/httperr"
	"pinecove/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	checker usecase.AvailabilityChecker
}

func NewAvailabilityHandler(checker usecase.AvailabilityChecker) *AvailabilityHandler {
	return &AvailabilityHandler{checker: checker}
}

// @Summary Check availability
// @Description Check whether a resource can host a stay over a half-open date range
// @Tags availability
// @Produce json
// @Param resource_id query string true "Resource ID"
// @Param start query string true "Check-in date (YYYY-MM-DD)"
// @Param end query string true "Departure date (YYYY-MM-DD), not part of the stay"
// @Param guests query int true "Guest count"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Query("resource_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID format", nil)
		return
	}

	var query reqdto.AvailabilityQuery
	if bindErr := c.ShouldBindQuery(&query); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	start, end, err := query.ParseRange()
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.checker.Check(c.Request.Context(), resourceID, start, end, query.Guests)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityResult(resourceID, query.Start, query.End, query.Guests, result))
}

// @Summary Check availability across all resources
// @Description List every resource with its availability for the requested stay
// @Tags availability
// @Produce json
// @Param start query string true "Check-in date (YYYY-MM-DD)"
// @Param end query string true "Departure date (YYYY-MM-DD), not part of the stay"
// @Param guests query int true "Guest count"
// @Success 200 {array} resdto.ResourceAvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Router /availability/all [get]
func (h *AvailabilityHandler) CheckAll(c *gin.Context) {
	var query reqdto.AvailabilityQuery
	if bindErr := c.ShouldBindQuery(&query); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	start, end, err := query.ParseRange()
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := h.checker.CheckAll(c.Request.Context(), start, end, query.Guests)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]*resdto.ResourceAvailabilityResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromResourceAvailability(item)
	}

	c.JSON(http.StatusOK, response)
}
