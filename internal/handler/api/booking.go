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

type BookingHandler struct {
	lifecycle usecase.BookingLifecycle
	quotes    usecase.QuoteService
}

func NewBookingHandler(lifecycle usecase.BookingLifecycle, quotes usecase.QuoteService) *BookingHandler {
	return &BookingHandler{
		lifecycle: lifecycle,
		quotes:    quotes,
	}
}

// @Summary Create booking
// @Description Commit a reservation after payment authorization
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Success 202 {object} resdto.DeferredBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	start, end, err := req.ParseRange()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date format, expected YYYY-MM-DD", nil)
		return
	}

	// The price is resolved server-side from the same inputs the guest quoted
	// with; the client never supplies its own numbers.
	breakdown, err := h.quotes.Quote(c.Request.Context(), usecase.QuoteParams{
		ResourceID:   req.ResourceID,
		Start:        start,
		End:          end,
		Guests:       req.Guests,
		Pets:         req.Pets,
		ReferralCode: req.GetReferralCode(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.lifecycle.Create(c.Request.Context(), usecase.CreateBookingParams{
		ResourceID: req.ResourceID,
		Start:      start,
		End:        end,
		Guests:     req.Guests,
		Guest:      req.ToGuest(),
		PaymentRef: req.PaymentRef,
		Quote:      *breakdown,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Deferred {
		c.JSON(http.StatusAccepted, resdto.DeferredBookingResponse{
			Deferred:  true,
			WidgetURL: result.WidgetURL,
		})
		return
	}

	response, err := resdto.FromBooking(result.Booking)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	b, err := h.lifecycle.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := resdto.FromBooking(b)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Cancel booking
// @Description Cancel a booking and issue the tiered refund; idempotent
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancel options"
// @Success 200 {object} resdto.CancelBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
			return
		}
	}

	result, err := h.lifecycle.Cancel(c.Request.Context(), id, req.RefundCentsOverride)
	if err != nil {
		respondError(c, err)
		return
	}

	bookingResp, err := resdto.FromBooking(result.Booking)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.CancelBookingResponse{
		Booking:          bookingResp,
		AlreadyCancelled: result.AlreadyCancelled,
		RefundCents:      result.RefundCents,
		RefundIssued:     result.RefundIssued,
		RefundFailure:    result.RefundFailure,
	})
}

// @Summary Modify booking
// @Description Change dates or guest count on an active booking
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.ModifyBookingRequest true "Fields to change"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /bookings/{id} [patch]
func (h *BookingHandler) ModifyBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	var req reqdto.ModifyBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	mod, err := req.ToModification()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date format, expected YYYY-MM-DD", nil)
		return
	}

	b, err := h.lifecycle.Modify(c.Request.Context(), id, mod)
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := resdto.FromBooking(b)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
