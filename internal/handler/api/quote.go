package api

import (
	"net/http"

	reqdto "pinecove/internal/handler/dto/request"
	resdto "pinecove/internal/handler/dto/response"
	"pinecove/internal/handler/httperr"
	"pinecove/internal/usecase"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	quotes usecase.QuoteService
}

func NewQuoteHandler(quotes usecase.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// @Summary Quote a stay
// @Description Price a stay including fees, taxes and any referral discount
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body reqdto.QuoteRequest true "Quote request"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	params, err := req.ToParams()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date format, expected YYYY-MM-DD", nil)
		return
	}

	breakdown, err := h.quotes.Quote(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := resdto.FromBreakdown(breakdown)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
