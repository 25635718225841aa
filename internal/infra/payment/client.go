package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"pinecove/internal/pkg/config"
	"pinecove/internal/pkg/errs"
	"pinecove/internal/usecase"
)

// Client wraps the payment processor's REST API. Declines and processor
// errors are marked errs.ErrPaymentFailed so handlers can surface the
// processor's message verbatim.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewClient(cfg config.PaymentConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

type wireIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type wireError struct {
	Message string `json:"message"`
}

func (c *Client) Authorize(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*usecase.PaymentIntent, error) {
	payload := map[string]any{
		"amount_cents": amountCents,
		"currency":     currency,
		"metadata":     metadata,
	}
	return c.intentCall(ctx, http.MethodPost, "/intents", payload)
}

func (c *Client) Confirm(ctx context.Context, intentID string) (*usecase.PaymentIntent, error) {
	return c.intentCall(ctx, http.MethodPost, "/intents/"+url.PathEscape(intentID)+"/confirm", nil)
}

func (c *Client) GetIntent(ctx context.Context, intentID string) (*usecase.PaymentIntent, error) {
	return c.intentCall(ctx, http.MethodGet, "/intents/"+url.PathEscape(intentID), nil)
}

type wireRefund struct {
	ID string `json:"id"`
}

func (c *Client) Refund(ctx context.Context, intentID string, amountCents int64, reason string) (string, error) {
	payload := map[string]any{
		"intent_id":    intentID,
		"amount_cents": amountCents,
		"reason":       reason,
	}
	body, err := c.call(ctx, http.MethodPost, "/refunds", payload)
	if err != nil {
		return "", err
	}

	var refund wireRefund
	if err := json.Unmarshal(body, &refund); err != nil {
		return "", errs.Wrap(err, "failed to decode refund response")
	}
	return refund.ID, nil
}

func (c *Client) intentCall(ctx context.Context, method, path string, payload any) (*usecase.PaymentIntent, error) {
	body, err := c.call(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	var intent wireIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, errs.Wrap(err, "failed to decode payment intent")
	}
	return &usecase.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  intent.AmountCents,
		Currency:     intent.Currency,
		Status:       intent.Status,
	}, nil
}

func (c *Client) call(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, errs.Wrap(err, "failed to encode payment request")
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build payment request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPaymentFailed)
	}
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, errs.Mark(err, errs.ErrPaymentFailed)
	}

	if resp.StatusCode >= 400 {
		var procErr wireError
		if json.Unmarshal(buf.Bytes(), &procErr) == nil && procErr.Message != "" {
			return nil, errs.Mark(errs.New(procErr.Message), errs.ErrPaymentFailed)
		}
		return nil, errs.Mark(errs.New("processor returned status "+strconv.Itoa(resp.StatusCode)), errs.ErrPaymentFailed)
	}

	return buf.Bytes(), nil
}
