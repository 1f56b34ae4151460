package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"tienda/internal/domain"
)

// GuestCartRepo persists the guest cart exactly as the browser would: a
// single JSON array of line items under a fixed per-session storage key.
type GuestCartRepo struct{ db *sqlx.DB }

func NewGuestCartRepo(db *sqlx.DB) *GuestCartRepo { return &GuestCartRepo{db: db} }

// Load reads the persisted line items. A missing or corrupt blob is an empty
// cart; corrupt blobs are discarded so they cannot wedge the session.
func (r *GuestCartRepo) Load(key string) ([]domain.LineItem, error) {
	var blob string
	err := r.db.Get(&blob, `SELECT items FROM guest_carts WHERE storage_key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []domain.LineItem
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		_ = r.Clear(key)
		return nil, nil
	}
	return items, nil
}

// Save writes the full array, replacing whatever was there.
func (r *GuestCartRepo) Save(key string, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
		INSERT INTO guest_carts(storage_key, items, updated_at) VALUES(?,?,?)
		ON CONFLICT(storage_key) DO UPDATE SET items = excluded.items, updated_at = excluded.updated_at
	`, key, string(blob), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (r *GuestCartRepo) Clear(key string) error {
	_, err := r.db.Exec(`DELETE FROM guest_carts WHERE storage_key = ?`, key)
	return err
}
