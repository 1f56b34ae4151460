// Package store is the device-local persistence layer: the guest cart blob,
// the persisted session token, the wishlist, and a log of placed orders.
// The backend remains the system of record for everything else.
package store

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Guest carts: one serialized JSON array of line items per storage key.
CREATE TABLE IF NOT EXISTS guest_carts(
  storage_key TEXT PRIMARY KEY,
  items TEXT NOT NULL,
  updated_at TEXT
);

-- Sessions: persisted auth token per session id (empty until login).
CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  token TEXT NOT NULL DEFAULT '',
  user_email TEXT,
  updated_at TEXT
);

-- Wishlist: saved product snapshots per session.
CREATE TABLE IF NOT EXISTS wishlist_items(
  session_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price INTEGER NOT NULL,
  image_url TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(session_id, product_id)
);

-- Orders placed from this device, kept for confirmation pages and as a
-- fallback history view when the backend is unreachable.
CREATE TABLE IF NOT EXISTS order_log(
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  status TEXT NOT NULL,
  total INTEGER NOT NULL,
  coupon_code TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_order_log_session ON order_log(session_id);
`
	_, err := db.Exec(schema)
	return err
}
