package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/domain/repository"
	"yt-channel-fetcher/infrastructure/logger"
)

// EnsureSessionSchema creates the table holding per-session fetch results if not exists
func EnsureSessionSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS fetch_session (
        session_id TEXT PRIMARY KEY,
        channel_id TEXT NOT NULL,
        data JSONB NOT NULL,
        fetched_at TIMESTAMPTZ NOT NULL,
        expires_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create fetch_session table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_fetch_session_expires_at ON fetch_session(expires_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_fetch_session_expires_at")
	}
	return nil
}

// SessionRepository stores each session's latest fetch result as one JSONB row
type SessionRepository struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

var _ repository.ISessionStore = (*SessionRepository)(nil)

func NewSessionRepository(db *sql.DB, ttl time.Duration) *SessionRepository {
	return &SessionRepository{db: db, ttl: ttl, now: time.Now}
}

// Load returns nil when the session has no row or the row expired
func (r *SessionRepository) Load(ctx context.Context, sessionID string) (*model.FetchResult, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data FROM fetch_session WHERE session_id=$1 AND expires_at > $2`, sessionID, r.now().UTC())
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	var result model.FetchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &result, nil
}

// Replace upserts the whole row, so a session never holds a mix of two fetches
func (r *SessionRepository) Replace(ctx context.Context, sessionID string, result *model.FetchResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}
	now := r.now().UTC()
	q := `INSERT INTO fetch_session(session_id, channel_id, data, fetched_at, expires_at)
          VALUES ($1,$2,$3,$4,$5)
          ON CONFLICT (session_id) DO UPDATE SET channel_id=EXCLUDED.channel_id, data=EXCLUDED.data, fetched_at=EXCLUDED.fetched_at, expires_at=EXCLUDED.expires_at`
	if _, err := r.db.ExecContext(ctx, q, sessionID, result.Channel.ID, raw, result.FetchedAt.UTC(), now.Add(r.ttl)); err != nil {
		return fmt.Errorf("failed to store session %s: %w", sessionID, err)
	}
	return nil
}

// PurgeExpired deletes expired sessions and returns how many rows went away
func (r *SessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fetch_session WHERE expires_at <= $1`, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return res.RowsAffected()
}
