package api

import (
	"net/http"

	reqdto "pinecove/internal/handler/dto/request"
	"pinecove/internal/handler/httperr"
	"pinecove/internal/usecase"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	lifecycle usecase.BookingLifecycle
}

func NewWebhookHandler(lifecycle usecase.BookingLifecycle) *WebhookHandler {
	return &WebhookHandler{lifecycle: lifecycle}
}

// @Summary Payment webhook
// @Description Apply an asynchronous payment status event; duplicate deliveries are acknowledged without effect
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentWebhookRequest true "Payment event"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} httperr.Response
// @Router /webhooks/payment [post]
func (h *WebhookHandler) HandlePaymentEvent(c *gin.Context) {
	var req reqdto.PaymentWebhookRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	if err := h.lifecycle.ApplyPaymentEvent(c.Request.Context(), req.EventID, req.PaymentRef, req.Kind); err != nil {
		respondError(c, err)
		return
	}

	// Always 200 on success so the processor stops redelivering.
	c.JSON(http.StatusOK, gin.H{"received": true})
}
