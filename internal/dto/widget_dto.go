package dto

import (
	"time"

	"github.com/google/uuid"
)

type SessionMetadataRequest struct {
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

type CreateSessionRequest struct {
	OrganizationId string                 `json:"organization_id" validate:"required"`
	Name           string                 `json:"name" validate:"required"`
	Email          string                 `json:"email" validate:"required,email"`
	Metadata       SessionMetadataRequest `json:"metadata"`
}

type CreateSessionResponse struct {
	Id        uuid.UUID `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ValidateSessionRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
}

type ValidateSessionResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}
