//go:build unit

package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pinecove/internal/domain/booking"
	"pinecove/internal/handler/api"
	"pinecove/internal/pkg/errs"
	"pinecove/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type stubLifecycle struct {
	applyErr     error
	appliedCalls []string
}

func (s *stubLifecycle) Create(context.Context, usecase.CreateBookingParams) (*usecase.CreateBookingResult, error) {
	panic("not used")
}

func (s *stubLifecycle) Get(context.Context, uuid.UUID) (*booking.Booking, error) {
	return nil, errs.Mark(errs.New("missing"), errs.ErrBookingNotFound)
}

func (s *stubLifecycle) Cancel(context.Context, uuid.UUID, *int64) (*usecase.CancelResult, error) {
	panic("not used")
}

func (s *stubLifecycle) Modify(context.Context, uuid.UUID, booking.Modification) (*booking.Booking, error) {
	panic("not used")
}

func (s *stubLifecycle) ApplyPaymentEvent(_ context.Context, eventID, paymentRef, kind string) error {
	s.appliedCalls = append(s.appliedCalls, eventID+"/"+paymentRef+"/"+kind)
	return s.applyErr
}

type WebhookHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	lifecycle *stubLifecycle
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.lifecycle = &stubLifecycle{}

	handler := api.NewWebhookHandler(s.lifecycle)
	s.router.POST("/webhooks/payment", handler.HandlePaymentEvent)
}

func TestWebhookHandlerSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

func (s *WebhookHandlerTestSuite) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *WebhookHandlerTestSuite) TestAcknowledgesValidEvent() {
	w := s.post(`{"event_id": "evt_1", "kind": "payment.succeeded", "payment_ref": "pi_1"}`)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"received":true`)
	s.Equal([]string{"evt_1/pi_1/payment.succeeded"}, s.lifecycle.appliedCalls)
}

func (s *WebhookHandlerTestSuite) TestRejectsMissingFields() {
	w := s.post(`{"kind": "payment.succeeded"}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Empty(s.lifecycle.appliedCalls)
}

func (s *WebhookHandlerTestSuite) TestMapsUnknownKindToBadRequest() {
	s.lifecycle.applyErr = errs.Mark(errs.New("unknown kind"), errs.ErrInvalidInput)

	w := s.post(`{"event_id": "evt_1", "kind": "payment.exploded", "payment_ref": "pi_1"}`)

	s.Equal(http.StatusBadRequest, w.Code)
}
