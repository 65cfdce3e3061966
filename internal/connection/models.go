package connection

import (
	"time"

	"backend-nexus/internal/platform"
)

// Connection records that an owner has linked a social account for one
// platform. One row per (owner, platform); relinking refreshes the row.
type Connection struct {
	OwnerID           string            `json:"owner_id"`
	Platform          platform.Platform `json:"platform"`
	PlatformUsername  string            `json:"platform_username"`
	ProfilePictureURL string            `json:"profile_picture_url,omitempty"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type UpsertInput struct {
	PlatformUsername  string `json:"platform_username"`
	ProfilePictureURL string `json:"profile_picture_url"`
}
