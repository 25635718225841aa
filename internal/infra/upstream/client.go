package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"pinecove/internal/domain/calendar"
	"pinecove/internal/pkg/config"
	"pinecove/internal/pkg/errs"
	"pinecove/internal/usecase"
)

// Client talks to the property-management authority. Every call carries a
// bounded timeout via the underlying http.Client; the authority guarantees no
// latency bound from our side, so callers must treat every call as fallible.
type Client struct {
	baseURL   string
	token     string
	widgetURL string
	http      *http.Client
}

func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		token:     cfg.APIToken,
		widgetURL: cfg.WidgetURL,
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) WidgetURL() string {
	return c.widgetURL
}

func (c *Client) GetCalendar(ctx context.Context, upstreamID string, start, end calendar.Date) ([]calendar.Entry, error) {
	endpoint := fmt.Sprintf("%s/listings/%s/calendar?start=%s&end=%s",
		c.baseURL, url.PathEscape(upstreamID), start, end)

	body, err := c.do(ctx, http.MethodGet, endpoint, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return NormalizeCalendar(body)
}

type wirePricing struct {
	NightlyCents int64 `json:"nightly_cents"`
	TotalCents   int64 `json:"total_cents"`
}

func (c *Client) GetPricing(ctx context.Context, upstreamID string, start, end calendar.Date, guests int) (*usecase.UpstreamQuote, error) {
	endpoint := fmt.Sprintf("%s/listings/%s/pricing?start=%s&end=%s&guests=%d",
		c.baseURL, url.PathEscape(upstreamID), start, end, guests)

	body, err := c.do(ctx, http.MethodGet, endpoint, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var pricing wirePricing
	if err := json.Unmarshal(body, &pricing); err != nil {
		return nil, errs.Wrap(err, "failed to decode upstream pricing")
	}
	return &usecase.UpstreamQuote{NightlyCents: pricing.NightlyCents, TotalCents: pricing.TotalCents}, nil
}

type wireReservationRequest struct {
	ListingID  string `json:"listing_id"`
	Arrival    string `json:"arrival"`
	Departure  string `json:"departure"`
	Guests     int    `json:"guests"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
}

type wireReservationResponse struct {
	ID string `json:"id"`
}

func (c *Client) CreateReservation(ctx context.Context, res usecase.UpstreamReservation) (string, error) {
	payload, err := json.Marshal(wireReservationRequest{
		ListingID:  res.UpstreamID,
		Arrival:    res.Arrival.String(),
		Departure:  res.Departure.String(),
		Guests:     res.Guests,
		GuestName:  res.GuestName,
		GuestEmail: res.GuestEmail,
	})
	if err != nil {
		return "", errs.Wrap(err, "failed to encode reservation request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reservations", bytes.NewReader(payload))
	if err != nil {
		return "", errs.Wrap(err, "failed to build reservation request")
	}
	c.decorate(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errs.Mark(err, errs.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		var created wireReservationResponse
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			return "", errs.Wrap(err, "failed to decode reservation response")
		}
		return created.ID, nil
	case http.StatusConflict:
		return "", errs.Mark(errs.New("dates taken upstream"), errs.ErrConflict)
	case http.StatusNotImplemented:
		// The listing only books through the authority's embedded widget.
		return "", usecase.ErrDirectBookingUnsupported
	default:
		return "", errs.Mark(errs.Newf("upstream returned status %d", resp.StatusCode), errs.ErrUpstreamUnavailable)
	}
}

func (c *Client) DeleteReservation(ctx context.Context, ref string) error {
	endpoint := c.baseURL + "/reservations/" + url.PathEscape(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return errs.Wrap(err, "failed to build delete request")
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Mark(err, errs.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	// Already-deleted reservations are fine: the goal is the dates being free.
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return errs.Mark(errs.Newf("upstream returned status %d", resp.StatusCode), errs.ErrUpstreamUnavailable)
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, wantStatus int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build upstream request")
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return nil, errs.Mark(errs.Newf("upstream returned status %d", resp.StatusCode), errs.ErrUpstreamUnavailable)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrUpstreamUnavailable)
	}
	return data, nil
}
