package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContactSessionMetadata is the free-form client info captured by the widget
// contact form. Persisted as a JSON column.
type ContactSessionMetadata struct {
	UserAgent        string `json:"user_agent,omitempty"`
	Language         string `json:"language,omitempty"`
	Languages        string `json:"languages,omitempty"`
	Platform         string `json:"platform,omitempty"`
	Vendor           string `json:"vendor,omitempty"`
	ScreenResolution string `json:"screen_resolution,omitempty"`
	ViewportSize     string `json:"viewport_size,omitempty"`
	Timezone         string `json:"timezone,omitempty"`
	TimezoneOffset   int    `json:"timezone_offset,omitempty"`
	CookieEnabled    bool   `json:"cookie_enabled,omitempty"`
	Referrer         string `json:"referrer,omitempty"`
	CurrentURL       string `json:"current_url,omitempty"`
}

// ContactSession identifies one anonymous end user within one organization.
// Never mutated after creation; invalidated only by expiry.
type ContactSession struct {
	Id             uuid.UUID
	OrganizationId string
	Name           string
	Email          string
	Metadata       ContactSessionMetadata
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

// Expired reports whether the session must be treated as absent.
func (s *ContactSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
