package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ksef-tools/ksefauth/internal/session/domain"
)

type sessionsRepo struct {
	db *sql.DB
}

// validUntil round-trips through the store byte-identically, so it is kept as
// an RFC3339Nano UTC string rather than a driver-dependent timestamp column.
const timeLayout = time.RFC3339Nano

func (r *sessionsRepo) Get(ctx context.Context, principalID string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT access_token, refresh_token, valid_until
		FROM sessions
		WHERE principal_id = ?`, principalID)

	var s domain.Session
	var validUntil string
	if err := row.Scan(&s.AccessToken, &s.RefreshToken, &validUntil); err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	parsed, err := time.Parse(timeLayout, validUntil)
	if err != nil {
		return domain.Session{}, fmt.Errorf("corrupt valid_until for principal %s: %w", principalID, err)
	}
	s.ValidUntil = parsed

	return s, nil
}

func (r *sessionsRepo) Put(ctx context.Context, principalID string, session domain.Session) error {
	// Single upsert keeps the write atomic: no reader ever observes a row
	// with tokens from one session and expiry from another.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (principal_id, access_token, refresh_token, valid_until, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(principal_id) DO UPDATE SET
			access_token  = excluded.access_token,
			refresh_token = excluded.refresh_token,
			valid_until   = excluded.valid_until,
			updated_at    = excluded.updated_at`,
		principalID,
		session.AccessToken,
		session.RefreshToken,
		session.ValidUntil.UTC().Format(timeLayout),
		time.Now().UTC().Format(timeLayout),
	)
	return err
}

func (r *sessionsRepo) All(ctx context.Context) (map[string]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT principal_id, access_token, refresh_token, valid_until
		FROM sessions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make(map[string]domain.Session)
	for rows.Next() {
		var principalID, validUntil string
		var s domain.Session
		if err := rows.Scan(&principalID, &s.AccessToken, &s.RefreshToken, &validUntil); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, validUntil)
		if err != nil {
			return nil, fmt.Errorf("corrupt valid_until for principal %s: %w", principalID, err)
		}
		s.ValidUntil = parsed
		sessions[principalID] = s
	}

	return sessions, rows.Err()
}

func (r *sessionsRepo) Delete(ctx context.Context, principalID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE principal_id = ?`, principalID)
	return err
}
