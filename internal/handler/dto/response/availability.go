package response

import (
	"pinecove/internal/usecase"

	"github.com/google/uuid"
)

type AvailabilityResponse struct {
	ResourceID uuid.UUID `json:"resource_id"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Guests     int       `json:"guests"`
	Available  bool      `json:"available"`
	Reason     string    `json:"reason,omitempty"`
	// Cached flags an answer derived from the local calendar cache because the
	// booking authority could not be reached.
	Cached bool `json:"cached,omitempty"`
}

type ResourceAvailabilityResponse struct {
	ResourceID   uuid.UUID `json:"resource_id"`
	Name         string    `json:"name"`
	ImageURL     string    `json:"image_url,omitempty"`
	NightlyCents *int64    `json:"nightly_cents,omitempty"`
	Available    bool      `json:"available"`
	Reason       string    `json:"reason,omitempty"`
	Cached       bool      `json:"cached,omitempty"`
}

func FromAvailabilityResult(resourceID uuid.UUID, start, end string, guests int, r *usecase.AvailabilityResult) *AvailabilityResponse {
	return &AvailabilityResponse{
		ResourceID: resourceID,
		Start:      start,
		End:        end,
		Guests:     guests,
		Available:  r.Available,
		Reason:     r.Reason,
		Cached:     r.Cached,
	}
}

func FromResourceAvailability(item usecase.ResourceAvailability) *ResourceAvailabilityResponse {
	return &ResourceAvailabilityResponse{
		ResourceID:   item.ResourceID,
		Name:         item.Name,
		ImageURL:     item.ImageURL,
		NightlyCents: item.NightlyCents,
		Available:    item.Available,
		Reason:       item.Reason,
		Cached:       item.Cached,
	}
}
