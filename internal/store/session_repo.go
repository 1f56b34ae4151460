package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SessionRepo persists the auth token between process restarts, so a session
// that logged in yesterday is still authenticated after the app reloads.
type SessionRepo struct{ db *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{db: db} }

func (r *SessionRepo) Token(sid string) (string, error) {
	var tok string
	err := r.db.Get(&tok, `SELECT token FROM sessions WHERE id = ?`, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return tok, err
}

func (r *SessionRepo) BindToken(sid, token, email string) error {
	_, err := r.db.Exec(`
		INSERT INTO sessions(id, token, user_email, updated_at) VALUES(?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token,
		  user_email = excluded.user_email, updated_at = excluded.updated_at
	`, sid, token, email, time.Now().UTC().Format(time.RFC3339))
	return err
}

// ClearToken drops every persisted key the session owns (logout teardown).
func (r *SessionRepo) ClearToken(sid string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, sid)
	return err
}
