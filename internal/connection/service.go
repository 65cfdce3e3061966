package connection

import (
	"context"
	"errors"

	"backend-nexus/internal/db"
	"backend-nexus/internal/platform"
)

var ErrUsernameRequired = errors.New("platform username required")

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

// Upsert links or relinks a platform account. One connection per
// (owner, platform); relinking refreshes the stored account details.
func (s *Service) Upsert(ctx context.Context, ownerID string, p platform.Platform, input UpsertInput) (Connection, error) {
	if !platform.IsSupported(p) {
		return Connection{}, platform.ErrUnsupportedPlatform
	}
	if input.PlatformUsername == "" {
		return Connection{}, ErrUsernameRequired
	}

	conn := Connection{
		OwnerID:           ownerID,
		Platform:          p,
		PlatformUsername:  input.PlatformUsername,
		ProfilePictureURL: input.ProfilePictureURL,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO connections (owner_id, platform, platform_username, profile_picture_url)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (owner_id, platform)
		DO UPDATE SET platform_username=$3, profile_picture_url=$4, updated_at=now()
		RETURNING updated_at
	`, ownerID, p, input.PlatformUsername, input.ProfilePictureURL)
	if err := row.Scan(&conn.UpdatedAt); err != nil {
		return Connection{}, err
	}
	return conn, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Connection, error) {
	rows, err := s.db.Query(ctx, `
		SELECT owner_id, platform, platform_username, COALESCE(profile_picture_url,''), updated_at
		FROM connections
		WHERE owner_id=$1
		ORDER BY platform
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []Connection
	for rows.Next() {
		var c Connection
		if err := rows.Scan(&c.OwnerID, &c.Platform, &c.PlatformUsername, &c.ProfilePictureURL, &c.UpdatedAt); err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

// Delete unlinks a platform account. Deleting a connection that does not
// exist is not an error; the end state is the same.
func (s *Service) Delete(ctx context.Context, ownerID string, p platform.Platform) error {
	if !platform.IsSupported(p) {
		return platform.ErrUnsupportedPlatform
	}
	_, err := s.db.Exec(ctx, `
		DELETE FROM connections WHERE owner_id=$1 AND platform=$2
	`, ownerID, p)
	return err
}

// HasActiveConnection answers the scheduling gate: a post may only be
// scheduled while its platform is linked. Checked at decision time, never
// cached.
func (s *Service) HasActiveConnection(ctx context.Context, ownerID string, p platform.Platform) (bool, error) {
	var exists bool
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM connections WHERE owner_id=$1 AND platform=$2)
	`, ownerID, p)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
