package post

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"backend-nexus/internal/db"
	"backend-nexus/internal/platform"
	"backend-nexus/internal/queue"
	"backend-nexus/internal/rules"
	"backend-nexus/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ConnectionGate answers whether an owner holds a usable publishing
// credential for a platform. Freshness is the gate's concern; a stale
// connection reads as absent.
type ConnectionGate interface {
	HasActiveConnection(ctx context.Context, ownerID string, p platform.Platform) (bool, error)
}

type Service struct {
	db    db.Querier
	gate  ConnectionGate
	queue *queue.Queue
	hub   *stream.Hub
	now   func() time.Time
}

func NewService(db db.Querier, gate ConnectionGate, q *queue.Queue, hub *stream.Hub) *Service {
	return &Service{db: db, gate: gate, queue: q, hub: hub, now: time.Now}
}

const postColumns = `id, owner_id, platform, content, media_urls, scheduled_at, status, COALESCE(failure_reason,''), created_at, updated_at`

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.OwnerID, &p.Platform, &p.Content, &p.MediaURLs,
		&p.ScheduledAt, &p.Status, &p.FailureReason, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create validates and persists a post atomically. With a scheduled_at it
// behaves as create+schedule in one step; any validation or gate failure
// leaves nothing persisted.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (Post, error) {
	if err := rules.ValidateMediaURLs(input.MediaURLs); err != nil {
		return Post{}, err
	}
	if err := rules.ValidateContent(input.Platform, input.Content, len(input.MediaURLs)); err != nil {
		return Post{}, err
	}

	status := StatusDraft
	if input.ScheduledAt != nil {
		if err := rules.ValidateSchedule(input.ScheduledAt, s.now()); err != nil {
			return Post{}, err
		}
		connected, err := s.gate.HasActiveConnection(ctx, ownerID, input.Platform)
		if err != nil {
			return Post{}, err
		}
		if !connected {
			return Post{}, ErrPlatformNotConnected
		}
		status = StatusScheduled
	}

	p := Post{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Platform:    input.Platform,
		Content:     input.Content,
		MediaURLs:   input.MediaURLs,
		ScheduledAt: input.ScheduledAt,
		Status:      status,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, owner_id, platform, content, media_urls, scheduled_at, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at
	`, p.ID, p.OwnerID, p.Platform, p.Content, p.MediaURLs, p.ScheduledAt, p.Status)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Post{}, ErrDuplicateID
		}
		return Post{}, err
	}

	if p.Status == StatusScheduled {
		s.enqueue(ctx, p.ID, *p.ScheduledAt)
	}
	s.notify("created", p)
	return p, nil
}

// UpdateContent replaces content and media while the post is still a
// draft. The status predicate on the UPDATE serializes against concurrent
// transitions on the same id.
func (s *Service) UpdateContent(ctx context.Context, ownerID, id, content string, mediaURLs []string) (Post, error) {
	current, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return Post{}, err
	}
	if current.Status != StatusDraft {
		return Post{}, ErrInvalidState
	}
	if err := rules.ValidateMediaURLs(mediaURLs); err != nil {
		return Post{}, err
	}
	if err := rules.ValidateContent(current.Platform, content, len(mediaURLs)); err != nil {
		return Post{}, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE posts
		SET content=$3, media_urls=$4, updated_at=now()
		WHERE id=$1 AND owner_id=$2 AND status='draft'
		RETURNING `+postColumns+`
	`, id, ownerID, content, mediaURLs)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrInvalidState
		}
		return Post{}, err
	}
	s.notify("updated", p)
	return p, nil
}

// Schedule moves a draft to scheduled at the given future instant,
// provided the owner has an active connection for the post's platform.
func (s *Service) Schedule(ctx context.Context, ownerID, id string, at time.Time) (Post, error) {
	if err := rules.ValidateSchedule(&at, s.now()); err != nil {
		return Post{}, err
	}

	current, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return Post{}, err
	}
	if current.Status != StatusDraft {
		return Post{}, ErrInvalidState
	}

	connected, err := s.gate.HasActiveConnection(ctx, ownerID, current.Platform)
	if err != nil {
		return Post{}, err
	}
	if !connected {
		return Post{}, ErrPlatformNotConnected
	}

	row := s.db.QueryRow(ctx, `
		UPDATE posts
		SET status='scheduled', scheduled_at=$3, updated_at=now()
		WHERE id=$1 AND owner_id=$2 AND status='draft'
		RETURNING `+postColumns+`
	`, id, ownerID, at)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrInvalidState
		}
		return Post{}, err
	}

	s.enqueue(ctx, p.ID, at)
	s.notify("scheduled", p)
	return p, nil
}

// MarkPublished records a confirmed delivery reported by the publisher.
func (s *Service) MarkPublished(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE posts
		SET status='published', updated_at=now()
		WHERE id=$1 AND status='scheduled'
		RETURNING `+postColumns+`
	`, id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, s.missingOrInvalid(ctx, id)
		}
		return Post{}, err
	}

	s.dequeue(ctx, p.ID)
	s.notify("published", p)
	return p, nil
}

// MarkFailed records a delivery failure. The reason is kept verbatim as
// an opaque diagnostic.
func (s *Service) MarkFailed(ctx context.Context, id, reason string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE posts
		SET status='failed', failure_reason=$2, updated_at=now()
		WHERE id=$1 AND status='scheduled'
		RETURNING `+postColumns+`
	`, id, reason)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, s.missingOrInvalid(ctx, id)
		}
		return Post{}, err
	}

	s.dequeue(ctx, p.ID)
	s.notify("failed", p)
	return p, nil
}

// RevertToDraft returns a failed post to draft so the owner can fix and
// reschedule it. scheduled_at and the failure diagnostic are cleared.
func (s *Service) RevertToDraft(ctx context.Context, ownerID, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE posts
		SET status='draft', scheduled_at=NULL, failure_reason=NULL, updated_at=now()
		WHERE id=$1 AND owner_id=$2 AND status='failed'
		RETURNING `+postColumns+`
	`, id, ownerID)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := s.Get(ctx, ownerID, id); getErr != nil {
				return Post{}, getErr
			}
			return Post{}, ErrInvalidState
		}
		return Post{}, err
	}
	s.notify("reverted", p)
	return p, nil
}

// Cancel removes a draft or scheduled post from publishing consideration.
// Published and failed posts are immutable history and cannot be
// cancelled.
func (s *Service) Cancel(ctx context.Context, ownerID, id string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM posts
		WHERE id=$1 AND owner_id=$2 AND status IN ('draft','scheduled')
	`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := s.Get(ctx, ownerID, id); getErr != nil {
			return getErr
		}
		return ErrInvalidState
	}

	s.dequeue(ctx, id)
	s.notify("cancelled", Post{ID: id, OwnerID: ownerID})
	return nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts WHERE id=$1 AND owner_id=$2
	`, id, ownerID)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return p, nil
}

// ListByOwner returns the owner's posts ordered by their effective
// instant: scheduled_at when present, created_at for drafts.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Post, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts WHERE owner_id=$1
		ORDER BY COALESCE(scheduled_at, created_at)
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListByDay returns posts whose effective instant falls on the given
// calendar day in loc.
func (s *Service) ListByDay(ctx context.Context, ownerID string, year int, month time.Month, day int, loc *time.Location) ([]Post, error) {
	start := time.Date(year, month, day, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	rows, err := s.db.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE owner_id=$1
		  AND COALESCE(scheduled_at, created_at) >= $2
		  AND COALESCE(scheduled_at, created_at) < $3
		ORDER BY COALESCE(scheduled_at, created_at)
	`, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows pgx.Rows) ([]Post, error) {
	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *Service) missingOrInvalid(ctx context.Context, id string) error {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInvalidState
}

// enqueue/dequeue keep the redis due-index in step with the posts table.
// The table stays authoritative, so redis failures are logged, not fatal.
func (s *Service) enqueue(ctx context.Context, id string, at time.Time) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(ctx, id, at); err != nil {
		log.Printf("queue enqueue error: %v", err)
	}
}

func (s *Service) dequeue(ctx context.Context, id string) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Remove(ctx, id); err != nil {
		log.Printf("queue remove error: %v", err)
	}
}

func (s *Service) notify(event string, p Post) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(Event{Event: event, Post: p})
	s.hub.Broadcast(p.OwnerID, payload)
}
