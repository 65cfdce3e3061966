package media

import (
	"context"
	"errors"
	"strings"
	"time"

	"backend-nexus/internal/db"

	"github.com/google/uuid"
)

var ErrEmptyURL = errors.New("media url required")

// Object is an already-uploaded media asset recorded for later attachment
// to posts. Upload itself happens elsewhere; only the URL lands here.
type Object struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	URL       string    `json:"url"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

func (s *Service) Save(ctx context.Context, ownerID, url, kind string) (Object, error) {
	if strings.TrimSpace(url) == "" {
		return Object{}, ErrEmptyURL
	}
	if kind == "" {
		kind = "image"
	}
	obj := Object{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		URL:     url,
		Kind:    kind,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO media_objects (id, owner_id, url, kind)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, obj.ID, obj.OwnerID, obj.URL, obj.Kind)
	if err := row.Scan(&obj.CreatedAt); err != nil {
		return Object{}, err
	}
	return obj, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Object, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, url, kind, created_at
		FROM media_objects
		WHERE owner_id=$1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objs []Object
	for rows.Next() {
		var o Object
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.URL, &o.Kind, &o.CreatedAt); err != nil {
			return nil, err
		}
		objs = append(objs, o)
	}
	return objs, rows.Err()
}
