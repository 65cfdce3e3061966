package post

import (
	"errors"
	"time"

	"backend-nexus/internal/platform"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
	StatusFailed    Status = "failed"
)

var (
	ErrNotFound             = errors.New("post not found")
	ErrDuplicateID          = errors.New("post id already exists")
	ErrInvalidState         = errors.New("transition not allowed from current status")
	ErrPlatformNotConnected = errors.New("platform account not connected")
)

type Post struct {
	ID            string            `json:"id"`
	OwnerID       string            `json:"owner_id"`
	Platform      platform.Platform `json:"platform"`
	Content       string            `json:"content"`
	MediaURLs     []string          `json:"media_urls"`
	ScheduledAt   *time.Time        `json:"scheduled_at,omitempty"`
	Status        Status            `json:"status"`
	FailureReason string            `json:"failure_reason,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CreateInput carries a creation request. A non-nil ScheduledAt asks for
// an immediate draft-to-scheduled transition as part of the create.
type CreateInput struct {
	Platform    platform.Platform `json:"platform"`
	Content     string            `json:"content"`
	MediaURLs   []string          `json:"media_urls"`
	ScheduledAt *time.Time        `json:"scheduled_at"`
}

// Event is broadcast on the owner's stream whenever a post transitions.
type Event struct {
	Event string `json:"event"`
	Post  Post   `json:"post"`
}
